package orchestration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopSignalFirstFireWins(t *testing.T) {
	var sources []StopSource
	signal := newStopSignal(func(source StopSource) { sources = append(sources, source) })

	assert.False(t, signal.fired())
	assert.Equal(t, StopSourceNone, signal.firedBy())

	assert.True(t, signal.fire(StopSourceFocusLoss))
	assert.False(t, signal.fire(StopSourceCoarseCheck))

	assert.True(t, signal.fired())
	assert.Equal(t, StopSourceFocusLoss, signal.firedBy())
	assert.Equal(t, []StopSource{StopSourceFocusLoss}, sources)
}

func TestStopSignalConcurrentFiresCountOnce(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	signal := newStopSignal(func(StopSource) {
		mu.Lock()
		calls++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			signal.fire(StopSourcePlaybackCallback)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, calls)
	assert.Equal(t, StopSourcePlaybackCallback, signal.firedBy())
}

func TestStopSignalWaitReturnsImmediatelyWhenFired(t *testing.T) {
	signal := newStopSignal(nil)
	signal.fire(StopSourceCoarseCheck)

	stopped, err := signal.wait(context.Background(), clockwork.NewFakeClock(), StopWaitTimeout)

	require.NoError(t, err)
	assert.True(t, stopped)
}

func TestStopSignalWaitTimesOut(t *testing.T) {
	signal := newStopSignal(nil)
	clock := clockwork.NewFakeClock()

	type waitResult struct {
		stopped bool
		err     error
	}
	results := make(chan waitResult, 1)
	go func() {
		stopped, err := signal.wait(context.Background(), clock, StopWaitTimeout)
		results <- waitResult{stopped, err}
	}()

	blockUntil(t, clock, 1)
	clock.Advance(StopWaitTimeout - time.Millisecond)
	select {
	case <-results:
		t.Fatalf("wait returned before the timeout")
	default:
	}
	clock.Advance(time.Millisecond)

	result := <-results
	require.NoError(t, result.err)
	assert.False(t, result.stopped)
}

func TestStopSignalWaitWakesOnFire(t *testing.T) {
	signal := newStopSignal(nil)
	clock := clockwork.NewFakeClock()

	results := make(chan bool, 1)
	go func() {
		stopped, _ := signal.wait(context.Background(), clock, StopWaitTimeout)
		results <- stopped
	}()

	blockUntil(t, clock, 1)
	signal.fire(StopSourcePlaybackCallback)

	assert.True(t, <-results)
}

func TestStopSignalWaitHonorsCancellation(t *testing.T) {
	signal := newStopSignal(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stopped, err := signal.wait(ctx, clockwork.NewFakeClock(), StopWaitTimeout)

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, stopped)
}
