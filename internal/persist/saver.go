package persist

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/starford/raido/internal/store"
)

// SnapshotFunc produces the current snapshot to persist. It is called from
// the saver's goroutine, so implementations must be safe to call concurrently
// with mutations.
type SnapshotFunc func() store.Snapshot

// Saver coalesces persistence writes: in-memory state is mutated first and a
// save is scheduled, the actual flush happens after a short debounce so edit
// bursts produce one write. Close flushes pending state before teardown.
//
// A single internal goroutine owns the debounce timer and the last-written
// checksum; public methods communicate with it through channels.
type Saver struct {
	provider Provider
	snapshot SnapshotFunc
	delay    time.Duration
	logger   *slog.Logger

	scheduleCh chan struct{}
	flushCh    chan chan error

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewSaver starts a saver flushing to provider after delay.
func NewSaver(provider Provider, snapshot SnapshotFunc, delay time.Duration, logger *slog.Logger) *Saver {
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}
	s := &Saver{
		provider:   provider,
		snapshot:   snapshot,
		delay:      delay,
		logger:     logger,
		scheduleCh: make(chan struct{}, 1),
		flushCh:    make(chan chan error),
		stopCh:     make(chan struct{}),
		stopped:    make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *Saver) run() {
	defer close(s.stopped)

	var (
		timer   *time.Timer
		timerCh <-chan time.Time
		dirty   bool
		lastSum string
	)

	flush := func() error {
		snap := s.snapshot()
		dirty = false
		sum := snapshotSum(snap)
		if sum == lastSum {
			return nil
		}
		if err := s.provider.Save(snap); err != nil {
			return err
		}
		lastSum = sum
		return nil
	}

	for {
		select {
		case <-s.stopCh:
			if timer != nil {
				timer.Stop()
			}
			if dirty {
				if err := flush(); err != nil {
					s.logger.Error("final bookmark flush failed", slog.String("error", err.Error()))
				}
			}
			return

		case <-s.scheduleCh:
			dirty = true
			if timer == nil {
				timer = time.NewTimer(s.delay)
				timerCh = timer.C
			} else {
				timer.Reset(s.delay)
			}

		case <-timerCh:
			if !dirty {
				continue
			}
			if err := flush(); err != nil {
				s.logger.Error("bookmark flush failed", slog.String("error", err.Error()))
				// Keep dirty so the next schedule or Close retries.
				dirty = true
			}

		case resp := <-s.flushCh:
			if timer != nil {
				timer.Stop()
			}
			resp <- flush()
		}
	}
}

// Schedule marks state dirty and (re)arms the debounce timer. Fire-and-forget
// relative to the in-memory mutation that preceded it.
func (s *Saver) Schedule() {
	if s.closed.Load() {
		return
	}
	select {
	case s.scheduleCh <- struct{}{}:
	case <-s.stopped:
	default:
		// A schedule is already pending; coalesce.
	}
}

// Flush synchronously persists current state.
func (s *Saver) Flush() error {
	if s.closed.Load() {
		return nil
	}
	resp := make(chan error, 1)
	select {
	case s.flushCh <- resp:
	case <-s.stopped:
		return nil
	}
	select {
	case err := <-resp:
		return err
	case <-s.stopped:
		return nil
	}
}

// Close stops the saver, flushing any pending state first.
func (s *Saver) Close() {
	if s.closed.CompareAndSwap(false, true) {
		close(s.stopCh)
	}
	<-s.stopped
}

// snapshotSum fingerprints a snapshot so unchanged state is not rewritten.
func snapshotSum(snap store.Snapshot) string {
	data, err := json.Marshal(snap)
	if err != nil {
		return ""
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
