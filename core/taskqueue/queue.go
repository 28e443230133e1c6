// Package taskqueue runs one-shot tasks under unique names. At most one task
// per name runs at a time; enqueueing under a name that already has work
// applies an ExistingPolicy instead of stacking the tasks.
package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var ErrQueueClosed = errors.New("task queue closed")

type Task func(ctx context.Context) error

type ExistingPolicy int

const (
	// ExistingPolicyReplace cancels the running task, drops a pending one and
	// runs the new task once the cancelled one has returned.
	ExistingPolicyReplace ExistingPolicy = iota
	// ExistingPolicyKeep ignores the new task while the name has work and
	// returns the existing job instead.
	ExistingPolicyKeep
)

type Queue struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	works  map[string]*uniqueWork
	closed bool
	wg     sync.WaitGroup
}

type uniqueWork struct {
	running *Job
	pending *Job
}

// New creates a queue whose tasks run under contexts derived from ctx.
func New(ctx context.Context) *Queue {
	ctx, cancel := context.WithCancel(ctx)
	return &Queue{ctx: ctx, cancel: cancel, works: map[string]*uniqueWork{}}
}

// EnqueueUnique schedules task under name according to policy. On a closed
// queue the returned job is already cancelled with ErrQueueClosed.
func (q *Queue) EnqueueUnique(name string, policy ExistingPolicy, task Task) *Job {
	job := newJob(name, task)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		job.finish(StateCancelled, ErrQueueClosed)
		return job
	}

	work, ok := q.works[name]
	if !ok {
		work = &uniqueWork{}
		q.works[name] = work
	}

	switch policy {
	case ExistingPolicyKeep:
		if work.pending != nil {
			return work.pending
		}
		if work.running != nil {
			return work.running
		}
	default:
		if work.pending != nil {
			logger.DebugContext(q.ctx, "replacing pending job", "name", name, "job_id", work.pending.ID)
			work.pending.finish(StateCancelled, fmt.Errorf("replaced by job %s", job.ID))
			work.pending = nil
		}
		if work.running != nil {
			logger.DebugContext(q.ctx, "cancelling running job", "name", name, "job_id", work.running.ID)
			work.running.cancelRun()
		}
	}

	if work.running != nil {
		work.pending = job
		return job
	}

	q.startLocked(work, job)
	return job
}

func (q *Queue) startLocked(work *uniqueWork, job *Job) {
	work.running = job
	runCtx, cancel := context.WithCancel(q.ctx)
	job.start(cancel)

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		state, err := q.run(runCtx, job)
		cancel()
		job.finish(state, err)
		q.advance(job)
	}()
}

func (q *Queue) run(ctx context.Context, job *Job) (state State, err error) {
	ctx, span := tracer.Start(ctx, "run job", trace.WithAttributes(
		attribute.String("taskqueue.name", job.Name),
		attribute.String("taskqueue.job_id", job.ID),
	))
	defer span.End()

	defer func() {
		if recovered := recover(); recovered != nil {
			state, err = StateFailed, fmt.Errorf("job %s panicked: %v", job.ID, recovered)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	if err := job.task(ctx); err != nil {
		if ctx.Err() != nil {
			return StateCancelled, err
		}
		logger.WarnContext(ctx, "job failed", "name", job.Name, "job_id", job.ID, "error", err)
		return StateFailed, err
	}

	return StateSucceeded, nil
}

// advance starts the pending job, if any, after job has finished.
func (q *Queue) advance(job *Job) {
	q.mu.Lock()
	defer q.mu.Unlock()

	work, ok := q.works[job.Name]
	if !ok || work.running != job {
		return
	}
	work.running = nil

	if work.pending != nil && !q.closed {
		next := work.pending
		work.pending = nil
		q.startLocked(work, next)
		return
	}

	delete(q.works, job.Name)
}

// Close cancels running jobs, drops pending ones and waits for running jobs
// to return.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, work := range q.works {
		if work.pending != nil {
			work.pending.finish(StateCancelled, ErrQueueClosed)
			work.pending = nil
		}
	}
	q.cancel()
	q.mu.Unlock()

	q.wg.Wait()
}
