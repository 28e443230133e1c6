// Package simulated provides an in-memory platform audio service: stream
// volumes, output devices, a focus stack and players that react to focus
// changes. It backs the sleeptimer command and the orchestration tests.
package simulated

import (
	"fmt"
	"sync"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

const DefaultMaxVolume = 15

var (
	_ audio.Service                    = (*Service)(nil)
	_ audio.SupportedOutputTypesLister = (*ModernService)(nil)
)

// Calls counts service calls. Mutations are everything except reads.
type Calls struct {
	StreamVolume     int
	SetStreamVolume  int
	AdjustVolume     int
	IsMusicActive    int
	OutputDevices    int
	RequestFocus     int
	AbandonFocus     int
	RegisterCallback int
	UnregisterCall   int
}

// Mutations returns the number of calls that change platform state.
func (c Calls) Mutations() int {
	return c.SetStreamVolume + c.AdjustVolume + c.RequestFocus + c.AbandonFocus
}

type Option func(*Service)

func WithVolume(volume int) Option {
	return func(s *Service) { s.volumes[audio.StreamMusic] = volume }
}

func WithMaxVolume(volume int) Option {
	return func(s *Service) { s.maxVolume = volume }
}

func WithFixedVolume() Option {
	return func(s *Service) { s.volumeFixed = true }
}

func WithDenyFocus() Option {
	return func(s *Service) { s.denyFocus = true }
}

func WithOutputDevices(devices ...audio.DeviceDescriptor) Option {
	return func(s *Service) { s.devices = devices }
}

// WithLegacyPlayerState makes delivered playback configurations expose only
// the player state, like platforms without a direct activity flag.
func WithLegacyPlayerState() Option {
	return func(s *Service) { s.legacyPlayerState = true }
}

// Service is safe for concurrent use. Playback callbacks and focus listeners
// are invoked synchronously on the goroutine that caused the change, never
// while the service lock is held.
type Service struct {
	mu sync.Mutex

	volumes     map[audio.Stream]int
	maxVolume   int
	volumeFixed bool
	denyFocus   bool

	devices           []audio.DeviceDescriptor
	players           []*Player
	focusStack        []*audio.FocusRequest
	callbacks         map[audio.PlaybackSubscription]func([]audio.PlaybackConfiguration)
	legacyPlayerState bool

	calls Calls
}

func New(opts ...Option) *Service {
	s := &Service{
		volumes:   map[audio.Stream]int{audio.StreamMusic: DefaultMaxVolume / 2},
		maxVolume: DefaultMaxVolume,
		devices: []audio.DeviceDescriptor{
			{ID: "speaker", Name: "Speaker", Type: audio.DeviceTypeBuiltinSpeaker},
		},
		callbacks: map[audio.PlaybackSubscription]func([]audio.PlaybackConfiguration){},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) Calls() Calls {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Service) StreamVolume(stream audio.Stream) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.StreamVolume++
	return s.volumes[stream], nil
}

// Volume reads the music volume without counting a call.
func (s *Service) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumes[audio.StreamMusic]
}

func (s *Service) SetStreamVolume(stream audio.Stream, volume int, _ audio.VolumeFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.SetStreamVolume++

	if volume < 0 || volume > s.maxVolume {
		return fmt.Errorf("volume %d out of range [0, %d]", volume, s.maxVolume)
	}
	if !s.volumeFixed {
		s.volumes[stream] = volume
	}
	return nil
}

func (s *Service) AdjustStreamVolume(stream audio.Stream, direction audio.Direction, _ audio.VolumeFlags) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.AdjustVolume++

	if s.volumeFixed {
		return nil
	}
	s.volumes[stream] = min(max(s.volumes[stream]+int(direction), 0), s.maxVolume)
	return nil
}

// SetUserVolume changes the music volume the way a user pressing volume keys
// would, outside the fade out's control.
func (s *Service) SetUserVolume(volume int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.volumes[audio.StreamMusic] = min(max(volume, 0), s.maxVolume)
}

func (s *Service) IsVolumeFixed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volumeFixed
}

func (s *Service) IsMusicActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.IsMusicActive++

	for _, player := range s.players {
		if player.state == audio.PlayerStateStarted && (player.usage == audio.UsageMedia || player.usage == audio.UsageGame) {
			return true
		}
	}
	return false
}

func (s *Service) OutputDevices() ([]audio.DeviceDescriptor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.OutputDevices++

	var devices []audio.DeviceDescriptor
	if err := copier.Copy(&devices, s.devices); err != nil {
		return nil, fmt.Errorf("failed to copy output devices: %w", err)
	}
	return devices, nil
}

func (s *Service) RegisterPlaybackCallback(callback func([]audio.PlaybackConfiguration)) (audio.PlaybackSubscription, error) {
	if callback == nil {
		return "", fmt.Errorf("playback callback is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.RegisterCallback++

	subscription := audio.PlaybackSubscription(uuid.NewString())
	s.callbacks[subscription] = callback
	return subscription, nil
}

func (s *Service) UnregisterPlaybackCallback(subscription audio.PlaybackSubscription) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.UnregisterCall++

	if _, ok := s.callbacks[subscription]; !ok {
		return fmt.Errorf("unknown playback subscription %q", subscription)
	}
	delete(s.callbacks, subscription)
	return nil
}

// Subscribers returns the number of registered playback callbacks.
func (s *Service) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.callbacks)
}

// notifyPlaybackChanged must be called without s.mu held.
func (s *Service) notifyPlaybackChanged() {
	s.mu.Lock()
	configs := s.playbackConfigurationsLocked()
	callbacks := make([]func([]audio.PlaybackConfiguration), 0, len(s.callbacks))
	for _, callback := range s.callbacks {
		callbacks = append(callbacks, callback)
	}
	s.mu.Unlock()

	for _, callback := range callbacks {
		callback(configs)
	}
}

// PlaybackConfigurations returns what a playback callback would currently be
// delivered.
func (s *Service) PlaybackConfigurations() []audio.PlaybackConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playbackConfigurationsLocked()
}

func (s *Service) playbackConfigurationsLocked() []audio.PlaybackConfiguration {
	configs := make([]audio.PlaybackConfiguration, 0, len(s.players))
	for _, player := range s.players {
		if player.state == audio.PlayerStateReleased {
			continue
		}

		config := stateConfiguration{
			attributes: audio.Attributes{Usage: player.usage, ContentType: player.contentType},
			state:      player.state,
		}
		if s.legacyPlayerState {
			configs = append(configs, config)
		} else {
			configs = append(configs, activeConfiguration{config})
		}
	}
	return configs
}

type stateConfiguration struct {
	attributes audio.Attributes
	state      audio.PlayerState
}

func (c stateConfiguration) Attributes() *audio.Attributes {
	attributes := c.attributes
	return &attributes
}

func (c stateConfiguration) PlayerState() audio.PlayerState { return c.state }

type activeConfiguration struct {
	stateConfiguration
}

func (c activeConfiguration) IsActive() bool { return c.state == audio.PlayerStateStarted }

// ModernService adds the supported-output-types query newer platforms offer.
type ModernService struct {
	*Service

	supportedTypesErr error
}

func NewModern(supportedTypesErr error, opts ...Option) *ModernService {
	return &ModernService{Service: New(opts...), supportedTypesErr: supportedTypesErr}
}

func (s *ModernService) SupportedOutputDeviceTypes() ([]audio.DeviceType, error) {
	if s.supportedTypesErr != nil {
		return nil, s.supportedTypesErr
	}

	devices, err := s.OutputDevices()
	if err != nil {
		return nil, err
	}

	types := make([]audio.DeviceType, 0, len(devices))
	for _, device := range devices {
		types = append(types, device.Type)
	}
	return types, nil
}
