package taskqueue

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type State int

const (
	StateEnqueued State = iota
	StateRunning
	StateSucceeded
	StateFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateEnqueued:
		return "enqueued"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s State) IsFinished() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

type Job struct {
	ID   string
	Name string

	task Task
	done chan struct{}

	mu     sync.Mutex
	state  State
	err    error
	cancel context.CancelFunc
}

func newJob(name string, task Task) *Job {
	return &Job{
		ID:    uuid.NewString(),
		Name:  name,
		task:  task,
		done:  make(chan struct{}),
		state: StateEnqueued,
	}
}

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Err returns the task error, or why the job never ran.
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the job finished and returns its error, or until ctx is
// done.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Job) start(cancel context.CancelFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = StateRunning
	j.cancel = cancel
}

func (j *Job) cancelRun() {
	j.mu.Lock()
	cancel := j.cancel
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (j *Job) finish(state State, err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.IsFinished() {
		return
	}

	j.state = state
	j.err = err
	close(j.done)
}
