package audio

import "slices"

// ActivityProbe decides whether a single playback configuration is actively
// playing. Probes are best effort: whenever activity cannot be determined the
// configuration is assumed active, so playback is never declared stopped
// because of a state model the probe does not recognise.
type ActivityProbe interface {
	IsPlaybackActive(config PlaybackConfiguration) bool
}

// IsRelevantPlaybackActive reports whether config is active and carries a
// music-like usage.
func IsRelevantPlaybackActive(probe ActivityProbe, config PlaybackConfiguration) bool {
	if config == nil || !probe.IsPlaybackActive(config) {
		return false
	}

	attributes := config.Attributes()
	if attributes == nil {
		return false
	}
	return attributes.Usage.IsMusicLike()
}

// DirectActivityProbe reads the activity flag newer platforms expose.
type DirectActivityProbe struct{}

func (DirectActivityProbe) IsPlaybackActive(config PlaybackConfiguration) (active bool) {
	defer assumeActiveOnPanic(&active)

	if reporter, ok := config.(ActiveReporter); ok {
		return reporter.IsActive()
	}
	return true
}

// PlayerStateActivityProbe derives activity from the player state older
// platforms expose. An empty ActiveStates uses DefaultActivePlayerStates.
type PlayerStateActivityProbe struct {
	ActiveStates []PlayerState
}

func (p PlayerStateActivityProbe) IsPlaybackActive(config PlaybackConfiguration) (active bool) {
	defer assumeActiveOnPanic(&active)

	reporter, ok := config.(PlayerStateReporter)
	if !ok {
		return true
	}

	activeStates := p.ActiveStates
	if len(activeStates) == 0 {
		activeStates = DefaultActivePlayerStates
	}
	return slices.Contains(activeStates, reporter.PlayerState())
}

// CompatActivityProbe tries the direct activity flag, then the player state,
// and assumes active when neither is available.
type CompatActivityProbe struct{}

func (CompatActivityProbe) IsPlaybackActive(config PlaybackConfiguration) (active bool) {
	defer assumeActiveOnPanic(&active)

	if reporter, ok := config.(ActiveReporter); ok {
		return reporter.IsActive()
	}

	reporter, ok := config.(PlayerStateReporter)
	if !ok {
		return true
	}

	state := reporter.PlayerState()
	activeStates := DefaultActivePlayerStates
	if declared, ok := config.(ActivePlayerStatesReporter); ok {
		activeStates = declared.ActivePlayerStates()
	}

	// No recognised active states: anything that is not released counts.
	if len(activeStates) == 0 {
		return state != PlayerStateReleased
	}
	return slices.Contains(activeStates, state)
}

func assumeActiveOnPanic(active *bool) {
	if recover() != nil {
		*active = true
	}
}
