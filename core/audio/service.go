package audio

// Stream identifies a platform volume stream.
type Stream int

const (
	StreamVoiceCall    Stream = 0
	StreamSystem       Stream = 1
	StreamRing         Stream = 2
	StreamMusic        Stream = 3
	StreamAlarm        Stream = 4
	StreamNotification Stream = 5
)

// Direction is the direction of a single volume adjustment step.
type Direction int

const (
	AdjustLower Direction = -1
	AdjustSame  Direction = 0
	AdjustRaise Direction = 1
)

// VolumeFlags are passed through to the platform on volume writes. The fade
// out never asks for UI or sounds, so it always sends zero.
type VolumeFlags int

const (
	FlagShowUI    VolumeFlags = 1 << 0
	FlagPlaySound VolumeFlags = 1 << 2
)

// Service is the capability surface the fade out needs from the platform
// audio service. The service is a shared platform singleton: every read may
// reflect changes made concurrently by the user or by other apps.
type Service interface {
	VolumeController
	ActivityReporter
	OutputDeviceLister
	FocusArbiter
	PlaybackNotifier
}

type VolumeController interface {
	StreamVolume(stream Stream) (int, error)
	SetStreamVolume(stream Stream, volume int, flags VolumeFlags) error
	AdjustStreamVolume(stream Stream, direction Direction, flags VolumeFlags) error
	// IsVolumeFixed reports whether volume is fixed by hardware and volume
	// writes are ignored.
	IsVolumeFixed() bool
}

type ActivityReporter interface {
	// IsMusicActive is the coarse "music is playing somewhere" flag.
	IsMusicActive() bool
}

type FocusArbiter interface {
	RequestFocus(request *FocusRequest) (FocusResult, error)
	AbandonFocus(request *FocusRequest) error
}

// PlaybackSubscription is the handle returned when registering a playback
// callback.
type PlaybackSubscription string

type PlaybackNotifier interface {
	// RegisterPlaybackCallback delivers the full list of current playback
	// configurations every time it changes.
	RegisterPlaybackCallback(callback func([]PlaybackConfiguration)) (PlaybackSubscription, error)
	UnregisterPlaybackCallback(subscription PlaybackSubscription) error
}
