package orchestration

import (
	"sync/atomic"

	"github.com/d4rk/musicsleeptimer/core/audio"
)

// focusNegotiator holds one exclusive transient focus request per run. Losing
// the grant is taken as playback having stopped: the players that were
// pushed out are expected to pause.
type focusNegotiator struct {
	arbiter audio.FocusArbiter
	signal  *stopSignal
	onLoss  func(audio.FocusChange)
	request *audio.FocusRequest

	listening atomic.Bool
	granted   atomic.Bool
	released  atomic.Bool
}

func newFocusNegotiator(arbiter audio.FocusArbiter, signal *stopSignal, onLoss func(audio.FocusChange)) *focusNegotiator {
	n := &focusNegotiator{arbiter: arbiter, signal: signal, onLoss: onLoss}
	n.request = &audio.FocusRequest{
		Gain:                audio.FocusGainTransientExclusive,
		Attributes:          audio.MediaMusicAttributes(),
		AcceptsDelayedGain:  false,
		WillPauseWhenDucked: true,
		OnFocusChange:       n.onFocusChange,
	}
	n.listening.Store(true)
	return n
}

func (n *focusNegotiator) onFocusChange(change audio.FocusChange) {
	if !n.listening.Load() || !change.IsLoss() {
		return
	}

	if n.onLoss != nil {
		n.onLoss(change)
	}
	n.signal.fire(StopSourceFocusLoss)
}

// acquire requests focus. Only an immediate grant counts: delayed grants are
// not accepted by the request.
func (n *focusNegotiator) acquire() (bool, error) {
	result, err := n.arbiter.RequestFocus(n.request)
	if err != nil {
		return false, err
	}

	granted := result == audio.FocusGranted
	n.granted.Store(granted)
	return granted, nil
}

// release abandons the grant at most once, and only if it was obtained.
func (n *focusNegotiator) release() error {
	n.listening.Store(false)
	if !n.granted.Load() || !n.released.CompareAndSwap(false, true) {
		return nil
	}
	return n.arbiter.AbandonFocus(n.request)
}
