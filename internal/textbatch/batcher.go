package textbatch

import (
	"strings"
	"sync"
	"time"
)

// Telegram splits long pastes into several messages; Batcher glues the pieces
// back together before they are analyzed.

type Item struct {
	ChatID   int64
	UserID   int64
	Username string
	Text     string
}

type Batch struct {
	ChatID   int64
	UserID   int64
	Username string
	Parts    int
	Text     string
}

type Options struct {
	Debounce time.Duration
	// MaxParts flushes early once this many fragments are queued.
	MaxParts int
	OnFlush  func(Batch)
}

type Batcher struct {
	mu       sync.Mutex
	debounce time.Duration
	maxParts int
	onFlush  func(Batch)
	pending  map[int64]*pendingBatch
}

type pendingBatch struct {
	batch Batch
	parts []string
	timer *time.Timer
}

func New(opts Options) *Batcher {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 1200 * time.Millisecond
	}
	maxParts := opts.MaxParts
	if maxParts <= 0 {
		maxParts = 16
	}

	return &Batcher{
		debounce: debounce,
		maxParts: maxParts,
		onFlush:  opts.OnFlush,
		pending:  make(map[int64]*pendingBatch),
	}
}

func (b *Batcher) Add(item Item) {
	if strings.TrimSpace(item.Text) == "" {
		return
	}

	b.mu.Lock()
	pb, ok := b.pending[item.ChatID]
	if !ok {
		pb = &pendingBatch{
			batch: Batch{
				ChatID:   item.ChatID,
				UserID:   item.UserID,
				Username: item.Username,
			},
		}
		b.pending[item.ChatID] = pb
	}
	pb.parts = append(pb.parts, item.Text)

	if pb.timer != nil {
		pb.timer.Stop()
	}
	if len(pb.parts) >= b.maxParts {
		b.mu.Unlock()
		b.flush(item.ChatID)
		return
	}

	chatID := item.ChatID
	pb.timer = time.AfterFunc(b.debounce, func() {
		b.flush(chatID)
	})
	b.mu.Unlock()
}

// Flush delivers whatever is pending for chatID immediately and reports
// whether there was anything to deliver.
func (b *Batcher) Flush(chatID int64) bool {
	b.mu.Lock()
	pb, ok := b.pending[chatID]
	if ok && pb.timer != nil {
		pb.timer.Stop()
	}
	b.mu.Unlock()
	if !ok {
		return false
	}
	b.flush(chatID)
	return true
}

func (b *Batcher) flush(chatID int64) {
	b.mu.Lock()
	pb, ok := b.pending[chatID]
	if !ok {
		b.mu.Unlock()
		return
	}
	delete(b.pending, chatID)
	batch := pb.batch
	batch.Parts = len(pb.parts)
	batch.Text = strings.Join(pb.parts, "\n")
	onFlush := b.onFlush
	b.mu.Unlock()

	if onFlush != nil {
		onFlush(batch)
	}
}
