package persist

import (
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/starford/raido/internal/store"
)

// countingProvider records Save calls for debounce assertions.
type countingProvider struct {
	mu    sync.Mutex
	saves int
	last  store.Snapshot
}

func (p *countingProvider) Load() (store.Snapshot, error) { return store.Snapshot{}, nil }

func (p *countingProvider) Save(snap store.Snapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saves++
	p.last = snap
	return nil
}

func (p *countingProvider) Close() error { return nil }

func (p *countingProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

func TestSaverCoalescesBursts(t *testing.T) {
	p := &countingProvider{}
	snap := store.Snapshot{"/src/a.go": {{Line: 1}}}
	s := NewSaver(p, func() store.Snapshot { return snap }, 30*time.Millisecond, slog.Default())
	defer s.Close()

	for range 10 {
		s.Schedule()
	}
	time.Sleep(120 * time.Millisecond)
	if got := p.count(); got != 1 {
		t.Errorf("saves = %d, want 1 coalesced write", got)
	}
}

func TestSaverFlushIsSynchronous(t *testing.T) {
	p := &countingProvider{}
	snap := store.Snapshot{"/src/a.go": {{Line: 1}}}
	s := NewSaver(p, func() store.Snapshot { return snap }, time.Hour, slog.Default())
	defer s.Close()

	s.Schedule()
	if err := s.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if got := p.count(); got != 1 {
		t.Errorf("saves = %d, want 1", got)
	}
}

func TestSaverSkipsUnchangedSnapshot(t *testing.T) {
	p := &countingProvider{}
	snap := store.Snapshot{"/src/a.go": {{Line: 1}}}
	s := NewSaver(p, func() store.Snapshot { return snap }, time.Hour, slog.Default())
	defer s.Close()

	_ = s.Flush()
	_ = s.Flush()
	if got := p.count(); got != 1 {
		t.Errorf("saves = %d, want 1 (second flush unchanged)", got)
	}
}

func TestSaverCloseFlushesPendingState(t *testing.T) {
	p := &countingProvider{}
	snap := store.Snapshot{"/src/a.go": {{Line: 7}}}
	s := NewSaver(p, func() store.Snapshot { return snap }, time.Hour, slog.Default())

	s.Schedule()
	s.Close()
	if got := p.count(); got != 1 {
		t.Errorf("saves = %d, want flush on Close", got)
	}
	if len(p.last) != 1 {
		t.Errorf("last snapshot = %v", p.last)
	}
}

func TestSaverAfterCloseIsNoop(t *testing.T) {
	p := &countingProvider{}
	s := NewSaver(p, func() store.Snapshot { return store.Snapshot{} }, time.Hour, slog.Default())
	s.Close()
	s.Schedule()
	if err := s.Flush(); err != nil {
		t.Errorf("Flush after Close: %v", err)
	}
	s.Close()
}
