package session

import (
	"testing"
	"time"

	"content-studio/internal/content"
)

func TestStoreMode(t *testing.T) {
	s := NewStore(Options{})
	if got := s.Mode(1); got != content.ModeDetect {
		t.Fatalf("default mode = %s", got)
	}

	if !s.SetMode(1, "alice", content.ModeSEO) {
		t.Fatal("SetMode rejected a valid mode")
	}
	if got := s.Mode(1); got != content.ModeSEO {
		t.Errorf("mode = %s", got)
	}
	if got := s.Mode(2); got != content.ModeDetect {
		t.Errorf("other chat mode = %s", got)
	}

	if s.SetMode(1, "alice", content.Mode("POEM")) {
		t.Error("SetMode accepted an unknown mode")
	}
	if got := s.Mode(1); got != content.ModeSEO {
		t.Errorf("mode changed by rejected SetMode: %s", got)
	}
}

func TestStoreDefaultModeOption(t *testing.T) {
	s := NewStore(Options{DefaultMode: content.ModeWechat})
	if got := s.Mode(7); got != content.ModeWechat {
		t.Errorf("mode = %s", got)
	}

	s = NewStore(Options{DefaultMode: content.Mode("nope")})
	if got := s.Mode(7); got != content.ModeDetect {
		t.Errorf("invalid default not replaced: %s", got)
	}
}

func TestStoreRememberAndReset(t *testing.T) {
	s := NewStore(Options{})
	s.Remember(3, "", "第一段")
	if got := s.LastText(3); got != "第一段" {
		t.Fatalf("LastText = %q", got)
	}
	if got := s.Mode(3); got != content.ModeDetect {
		t.Errorf("Remember changed mode: %s", got)
	}

	s.Reset(3)
	if got := s.LastText(3); got != "" {
		t.Errorf("LastText after reset = %q", got)
	}
}

func TestStoreSweep(t *testing.T) {
	s := NewStore(Options{IdleTTL: time.Minute})
	s.SetMode(1, "", content.ModeSEO)
	s.SetMode(2, "", content.ModeAcademic)

	if n := s.Sweep(time.Now()); n != 0 {
		t.Fatalf("swept %d fresh sessions", n)
	}
	if n := s.Sweep(time.Now().Add(2 * time.Minute)); n != 2 {
		t.Fatalf("swept %d, want 2", n)
	}
	if got := s.Mode(1); got != content.ModeDetect {
		t.Errorf("mode after sweep = %s", got)
	}
}
