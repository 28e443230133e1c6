package events

const (
	KindRunStarted      Kind = "run.started"
	KindRunPhaseChanged Kind = "run.phase_changed"
	KindRunFinished     Kind = "run.finished"
)

type Phase string

const (
	PhaseStarted         Phase = "started"
	PhaseFocusRequested  Phase = "focus_requested"
	PhaseFading          Phase = "fading"
	PhaseWaiting         Phase = "waiting"
	PhaseRestoringVolume Phase = "restoring_volume"
	PhaseDone            Phase = "done"
)

type RunStarted struct{ Base }

func NewRunStarted(runID string) RunStarted {
	return RunStarted{Base: NewBase(KindRunStarted, runID)}
}

type RunPhaseChanged struct {
	Base
	Phase Phase
}

func NewRunPhaseChanged(runID string, phase Phase) RunPhaseChanged {
	return RunPhaseChanged{Base: NewBase(KindRunPhaseChanged, runID), Phase: phase}
}

type RunFinished struct {
	Base
	Success         bool
	PlaybackStopped bool
	// Err is set when the run failed.
	Err error
}

func NewRunFinished(runID string, success, playbackStopped bool, err error) RunFinished {
	return RunFinished{
		Base:            NewBase(KindRunFinished, runID),
		Success:         success,
		PlaybackStopped: playbackStopped,
		Err:             err,
	}
}
