package audio

type Usage int

const (
	UsageUnknown                      Usage = 0
	UsageMedia                        Usage = 1
	UsageVoiceCommunication           Usage = 2
	UsageAlarm                        Usage = 4
	UsageNotification                 Usage = 5
	UsageNotificationRingtone         Usage = 6
	UsageAssistanceAccessibility      Usage = 11
	UsageAssistanceNavigationGuidance Usage = 12
	UsageAssistanceSonification       Usage = 13
	UsageGame                         Usage = 14
	UsageAssistant                    Usage = 16
)

// IsMusicLike reports whether playback with this usage counts as music for
// stop detection. Notification-style sounds are ignored.
func (u Usage) IsMusicLike() bool {
	switch u {
	case UsageMedia, UsageGame, UsageAssistanceNavigationGuidance, UsageAssistanceAccessibility:
		return true
	default:
		return false
	}
}

type ContentType int

const (
	ContentTypeUnknown      ContentType = 0
	ContentTypeSpeech       ContentType = 1
	ContentTypeMusic        ContentType = 2
	ContentTypeMovie        ContentType = 3
	ContentTypeSonification ContentType = 4
)

type Attributes struct {
	Usage       Usage
	ContentType ContentType
}

func MediaMusicAttributes() Attributes {
	return Attributes{Usage: UsageMedia, ContentType: ContentTypeMusic}
}

// PlaybackConfiguration describes one active player as reported by the
// platform. Attributes may be nil when the platform withholds them.
//
// Activity is reported through optional interfaces because platform versions
// differ: newer ones implement ActiveReporter, older ones only
// PlayerStateReporter.
type PlaybackConfiguration interface {
	Attributes() *Attributes
}

type ActiveReporter interface {
	IsActive() bool
}

type PlayerState int

const (
	PlayerStateUnknown  PlayerState = -1
	PlayerStateReleased PlayerState = 0
	PlayerStateIdle     PlayerState = 1
	PlayerStateStarted  PlayerState = 2
	PlayerStatePaused   PlayerState = 3
	PlayerStateStopped  PlayerState = 4
)

type PlayerStateReporter interface {
	PlayerState() PlayerState
}

// ActivePlayerStatesReporter lets a configuration declare which of its player
// states count as active, for platforms whose state model differs.
type ActivePlayerStatesReporter interface {
	ActivePlayerStates() []PlayerState
}

var DefaultActivePlayerStates = []PlayerState{PlayerStateStarted}
