package textbatch

import (
	"testing"
	"time"
)

func collect(t *testing.T, opts Options) (*Batcher, <-chan Batch) {
	t.Helper()
	out := make(chan Batch, 8)
	opts.OnFlush = func(b Batch) { out <- b }
	return New(opts), out
}

func waitBatch(t *testing.T, ch <-chan Batch) Batch {
	t.Helper()
	select {
	case b := <-ch:
		return b
	case <-time.After(2 * time.Second):
		t.Fatal("batch was not flushed")
		return Batch{}
	}
}

func TestBatcherMergesFragments(t *testing.T) {
	b, out := collect(t, Options{Debounce: 30 * time.Millisecond})

	b.Add(Item{ChatID: 1, UserID: 9, Username: "bob", Text: "第一段"})
	b.Add(Item{ChatID: 1, UserID: 9, Text: "第二段"})

	got := waitBatch(t, out)
	if got.Text != "第一段\n第二段" || got.Parts != 2 {
		t.Fatalf("batch = %+v", got)
	}
	if got.ChatID != 1 || got.UserID != 9 || got.Username != "bob" {
		t.Errorf("batch owner = %+v", got)
	}

	select {
	case extra := <-out:
		t.Fatalf("unexpected second flush: %+v", extra)
	case <-time.After(80 * time.Millisecond):
	}
}

func TestBatcherSeparatesChats(t *testing.T) {
	b, out := collect(t, Options{Debounce: 20 * time.Millisecond})

	b.Add(Item{ChatID: 1, Text: "甲"})
	b.Add(Item{ChatID: 2, Text: "乙"})

	seen := map[int64]string{}
	for n := 0; n < 2; n++ {
		got := waitBatch(t, out)
		seen[got.ChatID] = got.Text
	}
	if seen[1] != "甲" || seen[2] != "乙" {
		t.Fatalf("batches = %v", seen)
	}
}

func TestBatcherIgnoresBlank(t *testing.T) {
	b, out := collect(t, Options{Debounce: 10 * time.Millisecond})
	b.Add(Item{ChatID: 1, Text: "  \n "})

	select {
	case got := <-out:
		t.Fatalf("blank text flushed: %+v", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestBatcherMaxPartsFlushesEarly(t *testing.T) {
	b, out := collect(t, Options{Debounce: time.Hour, MaxParts: 2})

	b.Add(Item{ChatID: 5, Text: "a"})
	b.Add(Item{ChatID: 5, Text: "b"})

	got := waitBatch(t, out)
	if got.Text != "a\nb" {
		t.Fatalf("batch = %+v", got)
	}
}

func TestBatcherFlush(t *testing.T) {
	b, out := collect(t, Options{Debounce: time.Hour})

	b.Add(Item{ChatID: 3, Text: "立即"})
	if !b.Flush(3) {
		t.Fatal("Flush reported nothing pending")
	}

	if got := waitBatch(t, out); got.Text != "立即" {
		t.Fatalf("batch = %+v", got)
	}
	if b.Flush(3) {
		t.Error("second Flush reported pending text")
	}
	select {
	case got := <-out:
		t.Fatalf("empty flush delivered: %+v", got)
	default:
	}
}
