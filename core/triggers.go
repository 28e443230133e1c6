package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/d4rk/musicsleeptimer/core/taskqueue"
)

const (
	// ActionSleepAudio is the action name that starts a fade out.
	ActionSleepAudio = "com.d4rk.musicsleeptimer.plus.action.SLEEP_AUDIO"
	// UniqueWorkName keeps at most one fade out scheduled or running.
	UniqueWorkName = "sleep_audio_work"
)

type SleepAudioTrigger struct {
	Action    string
	Timestamp time.Time
}

func (t SleepAudioTrigger) String() string {
	return t.Action
}

// NewSleepAudioTrigger stamps the trigger with receivedAt. Callers pass the
// time the trigger arrived at their boundary, usually clock.Now().
func NewSleepAudioTrigger(action string, receivedAt time.Time) SleepAudioTrigger {
	return SleepAudioTrigger{Action: action, Timestamp: receivedAt}
}

// Task adapts Run to the task queue. The error is non-nil exactly when the
// run failed; skipped and degraded runs succeed.
func (o *Orchestrator) Task() taskqueue.Task {
	return func(ctx context.Context) error {
		result := o.Run(ctx)
		if result.Outcome == OutcomeFailure {
			return result.Err
		}
		return nil
	}
}

// StartWork schedules a fade out on queue. A fade out already scheduled or
// running is replaced by the new one.
func StartWork(queue *taskqueue.Queue, o *Orchestrator) *taskqueue.Job {
	return queue.EnqueueUnique(UniqueWorkName, taskqueue.ExistingPolicyReplace, o.Task())
}

// HandleTrigger starts work for a SleepAudioTrigger and ignores any other
// action. The returned job is nil when the trigger was ignored.
func HandleTrigger(queue *taskqueue.Queue, o *Orchestrator, trigger SleepAudioTrigger) (*taskqueue.Job, error) {
	if trigger.Action != ActionSleepAudio {
		logger.Debug("ignoring trigger with unknown action", "action", trigger.Action)
		return nil, nil
	}
	if queue == nil || o == nil {
		return nil, fmt.Errorf("cannot start %s: queue and orchestrator are required", trigger.Action)
	}

	logger.Debug("starting fade out work", "action", trigger.Action, "received_at", trigger.Timestamp)
	return StartWork(queue, o), nil
}
