package session

import (
	"sync"
	"time"

	"content-studio/internal/content"
)

type Session struct {
	ChatID       int64
	Username     string
	Mode         content.Mode
	LastText     string
	LastActivity time.Time
}

type Options struct {
	DefaultMode content.Mode
	// IdleTTL drops sessions untouched for longer than this on Sweep.
	IdleTTL time.Duration
}

// Store keeps the selected mode per chat.
type Store struct {
	mu          sync.Mutex
	sessions    map[int64]*Session
	defaultMode content.Mode
	idleTTL     time.Duration
}

func NewStore(opts Options) *Store {
	mode := opts.DefaultMode
	if !mode.Valid() {
		mode = content.ModeDetect
	}
	ttl := opts.IdleTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &Store{
		sessions:    make(map[int64]*Session),
		defaultMode: mode,
		idleTTL:     ttl,
	}
}

func (s *Store) Mode(chatID int64) content.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		return sess.Mode
	}
	return s.defaultMode
}

func (s *Store) SetMode(chatID int64, username string, mode content.Mode) bool {
	if !mode.Valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(chatID, username)
	sess.Mode = mode
	sess.LastActivity = time.Now()
	return true
}

// Remember records the last processed text so a mode switch can reuse it.
func (s *Store) Remember(chatID int64, username, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.getOrCreateLocked(chatID, username)
	sess.LastText = text
	sess.LastActivity = time.Now()
}

func (s *Store) LastText(chatID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		return sess.LastText
	}
	return ""
}

func (s *Store) Reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, chatID)
}

// Sweep removes idle sessions and returns how many were dropped.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastActivity) > s.idleTTL {
			delete(s.sessions, id)
			dropped++
		}
	}
	return dropped
}

func (s *Store) getOrCreateLocked(chatID int64, username string) *Session {
	if sess, ok := s.sessions[chatID]; ok {
		if sess.Username == "" && username != "" {
			sess.Username = username
		}
		return sess
	}

	sess := &Session{
		ChatID:       chatID,
		Username:     username,
		Mode:         s.defaultMode,
		LastActivity: time.Now(),
	}
	s.sessions[chatID] = sess
	return sess
}
