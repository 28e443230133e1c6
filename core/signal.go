package orchestration

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// StopSource names what first judged playback stopped.
type StopSource string

const (
	StopSourceNone             StopSource = ""
	StopSourceFocusLoss        StopSource = "focus_loss"
	StopSourcePlaybackCallback StopSource = "playback_callback"
	StopSourceCoarseCheck      StopSource = "coarse_check"
)

// stopSignal is a one-shot latch. Any number of goroutines may race to fire
// it; only the first fire counts and the latch stays fired.
type stopSignal struct {
	once   sync.Once
	done   chan struct{}
	source StopSource
	// onFire runs once, on the goroutine that fired, after waiters are
	// released.
	onFire func(StopSource)
}

func newStopSignal(onFire func(StopSource)) *stopSignal {
	return &stopSignal{done: make(chan struct{}), onFire: onFire}
}

// fire reports whether this call fired the latch.
func (s *stopSignal) fire(source StopSource) bool {
	fired := false
	s.once.Do(func() {
		s.source = source
		close(s.done)
		fired = true
	})

	if fired && s.onFire != nil {
		s.onFire(source)
	}
	return fired
}

func (s *stopSignal) fired() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// firedBy returns the source of the first fire, or StopSourceNone.
func (s *stopSignal) firedBy() StopSource {
	if !s.fired() {
		return StopSourceNone
	}
	return s.source
}

// wait blocks until the latch fires, timeout elapses on clock or ctx is done.
// A timeout is not an error: it returns false.
func (s *stopSignal) wait(ctx context.Context, clock clockwork.Clock, timeout time.Duration) (bool, error) {
	if s.fired() {
		return true, nil
	}

	timer := clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.done:
		return true, nil
	case <-timer.Chan():
		return s.fired(), nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}
