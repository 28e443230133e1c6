package taskqueue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

func waitJob(t *testing.T, job *Job) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), waitTimeout)
	defer cancel()

	select {
	case <-job.Done():
		return job.Err()
	case <-ctx.Done():
		t.Fatalf("timed out waiting for job %s", job.ID)
		return nil
	}
}

func TestEnqueueUniqueRunsTask(t *testing.T) {
	q := New(context.Background())
	defer q.Close()

	ran := make(chan struct{})
	job := q.EnqueueUnique("work", ExistingPolicyReplace, func(context.Context) error {
		close(ran)
		return nil
	})

	require.NoError(t, waitJob(t, job))
	assert.Equal(t, StateSucceeded, job.State())
	assert.NotEmpty(t, job.ID)
	<-ran
}

func TestFailedTaskReportsError(t *testing.T) {
	q := New(context.Background())
	defer q.Close()

	boom := errors.New("boom")
	job := q.EnqueueUnique("work", ExistingPolicyReplace, func(context.Context) error { return boom })

	assert.ErrorIs(t, waitJob(t, job), boom)
	assert.Equal(t, StateFailed, job.State())
}

func TestPanickingTaskFails(t *testing.T) {
	q := New(context.Background())
	defer q.Close()

	job := q.EnqueueUnique("work", ExistingPolicyReplace, func(context.Context) error { panic("boom") })

	assert.Error(t, waitJob(t, job))
	assert.Equal(t, StateFailed, job.State())
}

func TestReplaceSupersedesPendingAndCancelsRunning(t *testing.T) {
	q := New(context.Background())
	defer q.Close()

	var running, maxRunning atomic.Int32
	track := func(ctx context.Context, block bool) error {
		n := running.Add(1)
		defer running.Add(-1)
		for {
			current := maxRunning.Load()
			if n <= current || maxRunning.CompareAndSwap(current, n) {
				break
			}
		}
		if block {
			<-ctx.Done()
			return ctx.Err()
		}
		return nil
	}

	started := make(chan struct{})
	release := make(chan struct{})
	first := q.EnqueueUnique("work", ExistingPolicyReplace, func(ctx context.Context) error {
		close(started)
		err := track(ctx, true)
		<-release
		return err
	})
	<-started

	second := q.EnqueueUnique("work", ExistingPolicyReplace, func(ctx context.Context) error { return track(ctx, false) })
	third := q.EnqueueUnique("work", ExistingPolicyReplace, func(ctx context.Context) error { return track(ctx, false) })
	close(release)

	assert.ErrorIs(t, waitJob(t, first), context.Canceled)
	assert.Equal(t, StateCancelled, first.State())

	assert.Error(t, waitJob(t, second))
	assert.Equal(t, StateCancelled, second.State(), "pending job is replaced, never run")

	require.NoError(t, waitJob(t, third))
	assert.Equal(t, StateSucceeded, third.State())
	assert.Equal(t, int32(1), maxRunning.Load(), "jobs under one name never overlap")
}

func TestKeepReturnsExistingJob(t *testing.T) {
	q := New(context.Background())
	defer q.Close()

	release := make(chan struct{})
	first := q.EnqueueUnique("work", ExistingPolicyKeep, func(context.Context) error {
		<-release
		return nil
	})

	var ranSecond atomic.Bool
	second := q.EnqueueUnique("work", ExistingPolicyKeep, func(context.Context) error {
		ranSecond.Store(true)
		return nil
	})
	assert.Same(t, first, second)

	close(release)
	require.NoError(t, waitJob(t, first))
	assert.False(t, ranSecond.Load())
}

func TestDifferentNamesRunIndependently(t *testing.T) {
	q := New(context.Background())
	defer q.Close()

	release := make(chan struct{})
	blocked := q.EnqueueUnique("a", ExistingPolicyReplace, func(context.Context) error {
		<-release
		return nil
	})
	other := q.EnqueueUnique("b", ExistingPolicyReplace, func(context.Context) error { return nil })

	require.NoError(t, waitJob(t, other))
	assert.Equal(t, StateRunning, blocked.State())

	close(release)
	require.NoError(t, waitJob(t, blocked))
}

func TestCloseCancelsRunningAndRejectsNewJobs(t *testing.T) {
	q := New(context.Background())

	started := make(chan struct{})
	running := q.EnqueueUnique("work", ExistingPolicyReplace, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	})
	<-started

	q.Close()
	assert.Equal(t, StateCancelled, running.State())

	late := q.EnqueueUnique("work", ExistingPolicyReplace, func(context.Context) error { return nil })
	assert.ErrorIs(t, late.Err(), ErrQueueClosed)
	assert.Equal(t, StateCancelled, late.State())
}
