package audio

type FocusGain int

const (
	FocusGainPermanent          FocusGain = 1
	FocusGainTransient          FocusGain = 2
	FocusGainTransientMayDuck   FocusGain = 3
	FocusGainTransientExclusive FocusGain = 4
)

// FocusChange is delivered to a focus holder's listener.
type FocusChange int

const (
	FocusChangeGain                   FocusChange = 1
	FocusChangeLoss                   FocusChange = -1
	FocusChangeLossTransient          FocusChange = -2
	FocusChangeLossTransientCanDuck   FocusChange = -3
	FocusChangeGainTransient          FocusChange = 2
	FocusChangeGainTransientExclusive FocusChange = 4
)

// IsLoss reports whether the holder is expected to pause: a permanent or
// transient loss. Ducking losses are not included.
func (c FocusChange) IsLoss() bool {
	return c == FocusChangeLoss || c == FocusChangeLossTransient
}

type FocusResult int

const (
	FocusDenied  FocusResult = 0
	FocusGranted FocusResult = 1
	FocusDelayed FocusResult = 2
)

// FocusRequest is passed by pointer: the same request value identifies the
// holder when abandoning focus.
type FocusRequest struct {
	Gain                FocusGain
	Attributes          Attributes
	AcceptsDelayedGain  bool
	WillPauseWhenDucked bool
	// OnFocusChange may be called from any goroutine.
	OnFocusChange func(FocusChange)
}
