package events

const KindPlaybackStopDetected Kind = "playback.stop_detected"

type PlaybackStopDetected struct {
	Base
	// Source names the signal that fired first: focus_loss,
	// playback_callback or coarse_check.
	Source string
}

func NewPlaybackStopDetected(runID, source string) PlaybackStopDetected {
	return PlaybackStopDetected{Base: NewBase(KindPlaybackStopDetected, runID), Source: source}
}
