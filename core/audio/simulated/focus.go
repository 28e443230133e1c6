package simulated

import (
	"fmt"
	"slices"

	"github.com/d4rk/musicsleeptimer/core/audio"
)

func (s *Service) RequestFocus(request *audio.FocusRequest) (audio.FocusResult, error) {
	if request == nil {
		return audio.FocusDenied, fmt.Errorf("focus request is nil")
	}

	s.mu.Lock()
	s.calls.RequestFocus++
	if s.denyFocus {
		s.mu.Unlock()
		return audio.FocusDenied, nil
	}
	loser, change := s.pushFocusLocked(request)
	s.mu.Unlock()

	notifyFocusChange(loser, change)
	return audio.FocusGranted, nil
}

func (s *Service) AbandonFocus(request *audio.FocusRequest) error {
	s.mu.Lock()
	s.calls.AbandonFocus++
	winner := s.removeFocusLocked(request)
	s.mu.Unlock()

	notifyFocusChange(winner, audio.FocusChangeGain)
	return nil
}

// GrabFocus simulates another app taking focus. The returned request is
// released with ReleaseGrabbedFocus.
func (s *Service) GrabFocus(gain audio.FocusGain) *audio.FocusRequest {
	request := &audio.FocusRequest{Gain: gain, Attributes: audio.MediaMusicAttributes()}

	s.mu.Lock()
	loser, change := s.pushFocusLocked(request)
	s.mu.Unlock()

	notifyFocusChange(loser, change)
	return request
}

func (s *Service) ReleaseGrabbedFocus(request *audio.FocusRequest) {
	s.mu.Lock()
	winner := s.removeFocusLocked(request)
	s.mu.Unlock()

	notifyFocusChange(winner, audio.FocusChangeGain)
}

// FocusHolders returns the number of requests currently on the focus stack.
func (s *Service) FocusHolders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.focusStack)
}

// pushFocusLocked puts request on top of the focus stack and returns the
// previous top holder together with the change it has to be told about.
func (s *Service) pushFocusLocked(request *audio.FocusRequest) (*audio.FocusRequest, audio.FocusChange) {
	var previous *audio.FocusRequest
	if n := len(s.focusStack); n > 0 {
		previous = s.focusStack[n-1]
	}

	s.focusStack = slices.DeleteFunc(s.focusStack, func(holder *audio.FocusRequest) bool { return holder == request })
	s.focusStack = append(s.focusStack, request)

	if previous == nil || previous == request {
		return nil, 0
	}
	return previous, lossFor(request.Gain)
}

// removeFocusLocked drops request from the stack and returns the holder that
// regains focus, if request was on top.
func (s *Service) removeFocusLocked(request *audio.FocusRequest) *audio.FocusRequest {
	n := len(s.focusStack)
	if n == 0 {
		return nil
	}
	wasTop := s.focusStack[n-1] == request

	s.focusStack = slices.DeleteFunc(s.focusStack, func(holder *audio.FocusRequest) bool { return holder == request })
	if !wasTop || len(s.focusStack) == 0 || len(s.focusStack) == n {
		return nil
	}
	return s.focusStack[len(s.focusStack)-1]
}

func lossFor(gain audio.FocusGain) audio.FocusChange {
	switch gain {
	case audio.FocusGainPermanent:
		return audio.FocusChangeLoss
	case audio.FocusGainTransientMayDuck:
		return audio.FocusChangeLossTransientCanDuck
	default:
		return audio.FocusChangeLossTransient
	}
}

func notifyFocusChange(holder *audio.FocusRequest, change audio.FocusChange) {
	if holder == nil || change == 0 || holder.OnFocusChange == nil {
		return
	}
	holder.OnFocusChange(change)
}
