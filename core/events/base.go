package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	RunID() string
	Timestamp() time.Time
}

type Base struct {
	kind      Kind
	runID     string
	timestamp time.Time
}

func NewBase(kind Kind, runID string) Base {
	return Base{kind: kind, runID: runID, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

// RunID identifies the fade out run that emitted the event.
func (b Base) RunID() string {
	return b.runID
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
