package simulated

import (
	"context"
	"errors"
	"testing"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdjustStreamVolumeClampsAtZero(t *testing.T) {
	s := New(WithVolume(1))

	require.NoError(t, s.AdjustStreamVolume(audio.StreamMusic, audio.AdjustLower, 0))
	require.NoError(t, s.AdjustStreamVolume(audio.StreamMusic, audio.AdjustLower, 0))

	assert.Equal(t, 0, s.Volume())
	assert.Equal(t, 2, s.Calls().AdjustVolume)
}

func TestFixedVolumeIgnoresWrites(t *testing.T) {
	s := New(WithVolume(5), WithFixedVolume())

	require.NoError(t, s.AdjustStreamVolume(audio.StreamMusic, audio.AdjustLower, 0))
	require.NoError(t, s.SetStreamVolume(audio.StreamMusic, 2, 0))

	assert.True(t, s.IsVolumeFixed())
	assert.Equal(t, 5, s.Volume())
}

func TestSetStreamVolumeRejectsOutOfRange(t *testing.T) {
	s := New(WithMaxVolume(10))

	assert.Error(t, s.SetStreamVolume(audio.StreamMusic, 11, 0))
	assert.Error(t, s.SetStreamVolume(audio.StreamMusic, -1, 0))
}

func TestIsMusicActiveFollowsPlayers(t *testing.T) {
	s := New()
	assert.False(t, s.IsMusicActive())

	s.StartPlayer(WithUsage(audio.UsageNotification))
	assert.False(t, s.IsMusicActive(), "notification playback is not music")

	player := s.StartPlayer()
	assert.True(t, s.IsMusicActive())

	player.Pause()
	assert.False(t, s.IsMusicActive())
}

func TestTransientExclusiveFocusPausesPlayer(t *testing.T) {
	s := New()
	player := s.StartPlayer()

	result, err := s.RequestFocus(&audio.FocusRequest{Gain: audio.FocusGainTransientExclusive})
	require.NoError(t, err)

	assert.Equal(t, audio.FocusGranted, result)
	assert.Equal(t, audio.PlayerStatePaused, player.State())
}

func TestPlayerIgnoringFocusLossKeepsPlaying(t *testing.T) {
	s := New()
	player := s.StartPlayer(IgnoringFocusLoss())

	_, err := s.RequestFocus(&audio.FocusRequest{Gain: audio.FocusGainTransientExclusive})
	require.NoError(t, err)

	assert.Equal(t, audio.PlayerStateStarted, player.State())
}

func TestDeniedFocusDoesNotTouchStack(t *testing.T) {
	s := New(WithDenyFocus())
	s.StartPlayer()

	result, err := s.RequestFocus(&audio.FocusRequest{Gain: audio.FocusGainTransientExclusive})
	require.NoError(t, err)

	assert.Equal(t, audio.FocusDenied, result)
	assert.Equal(t, 1, s.FocusHolders())
}

func TestGrabFocusNotifiesHolder(t *testing.T) {
	s := New()

	var changes []audio.FocusChange
	request := &audio.FocusRequest{
		Gain:          audio.FocusGainTransientExclusive,
		OnFocusChange: func(change audio.FocusChange) { changes = append(changes, change) },
	}
	_, err := s.RequestFocus(request)
	require.NoError(t, err)

	grabbed := s.GrabFocus(audio.FocusGainTransient)
	s.ReleaseGrabbedFocus(grabbed)

	assert.Equal(t, []audio.FocusChange{audio.FocusChangeLossTransient, audio.FocusChangeGain}, changes)

	require.NoError(t, s.AbandonFocus(request))
	assert.Equal(t, 0, s.FocusHolders())
}

func TestPlaybackCallbackDeliversConfigurations(t *testing.T) {
	s := New()

	var delivered [][]audio.PlaybackConfiguration
	subscription, err := s.RegisterPlaybackCallback(func(configs []audio.PlaybackConfiguration) {
		delivered = append(delivered, configs)
	})
	require.NoError(t, err)

	player := s.StartPlayer(IgnoringFocusLoss())
	player.Stop()

	require.Len(t, delivered, 2)
	require.Len(t, delivered[1], 1)
	assert.False(t, audio.CompatActivityProbe{}.IsPlaybackActive(delivered[1][0]))

	require.NoError(t, s.UnregisterPlaybackCallback(subscription))
	player.Resume()
	assert.Len(t, delivered, 2)

	assert.Error(t, s.UnregisterPlaybackCallback(subscription))
}

func TestLegacyPlayerStateConfigurations(t *testing.T) {
	s := New(WithLegacyPlayerState())
	s.StartPlayer()

	configs := s.PlaybackConfigurations()
	require.Len(t, configs, 1)

	_, direct := configs[0].(audio.ActiveReporter)
	assert.False(t, direct)
	assert.True(t, audio.IsRelevantPlaybackActive(audio.PlayerStateActivityProbe{}, configs[0]))
}

func TestReleasedPlayersAreNotDelivered(t *testing.T) {
	s := New()
	player := s.StartPlayer()
	player.Release()

	assert.Empty(t, s.PlaybackConfigurations())
}

func TestNewDeviceProbeSelectsByCapability(t *testing.T) {
	ctx := context.Background()

	legacy := New()
	_, ok := audio.NewDeviceProbe(legacy).(audio.EnumeratedDeviceProbe)
	assert.True(t, ok)
	assert.True(t, audio.NewDeviceProbe(legacy).HasControllableOutput(ctx))

	modern := NewModern(nil)
	_, ok = audio.NewDeviceProbe(modern).(audio.SupportedTypesProbe)
	assert.True(t, ok)
	assert.True(t, audio.NewDeviceProbe(modern).HasControllableOutput(ctx))

	failing := NewModern(errors.New("not supported"))
	assert.False(t, audio.NewDeviceProbe(failing).HasControllableOutput(ctx))

	unknownOnly := New(WithOutputDevices(audio.DeviceDescriptor{ID: "x", Type: audio.DeviceTypeUnknown}))
	assert.False(t, audio.NewDeviceProbe(unknownOnly).HasControllableOutput(ctx))
}
