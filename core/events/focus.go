package events

const (
	KindFocusRequested Kind = "focus.requested"
	KindFocusLost      Kind = "focus.lost"
)

type FocusRequested struct {
	Base
	Granted bool
}

func NewFocusRequested(runID string, granted bool) FocusRequested {
	return FocusRequested{Base: NewBase(KindFocusRequested, runID), Granted: granted}
}

type FocusLost struct {
	Base
	Transient bool
}

func NewFocusLost(runID string, transient bool) FocusLost {
	return FocusLost{Base: NewBase(KindFocusLost, runID), Transient: transient}
}
