package orchestration

import (
	"testing"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/d4rk/musicsleeptimer/core/audio/simulated"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusNegotiatorRequestsExclusiveTransientFocus(t *testing.T) {
	svc := simulated.New()
	negotiator := newFocusNegotiator(svc, newStopSignal(nil), nil)

	assert.Equal(t, audio.FocusGainTransientExclusive, negotiator.request.Gain)
	assert.Equal(t, audio.MediaMusicAttributes(), negotiator.request.Attributes)
	assert.False(t, negotiator.request.AcceptsDelayedGain)
	assert.True(t, negotiator.request.WillPauseWhenDucked)
}

func TestFocusNegotiatorFiresOnLoss(t *testing.T) {
	svc := simulated.New()
	signal := newStopSignal(nil)
	var losses []audio.FocusChange
	negotiator := newFocusNegotiator(svc, signal, func(change audio.FocusChange) { losses = append(losses, change) })

	granted, err := negotiator.acquire()
	require.NoError(t, err)
	require.True(t, granted)

	svc.GrabFocus(audio.FocusGainPermanent)

	assert.Equal(t, StopSourceFocusLoss, signal.firedBy())
	assert.Equal(t, []audio.FocusChange{audio.FocusChangeLoss}, losses)
	require.NoError(t, negotiator.release())
}

func TestFocusNegotiatorIgnoresDucking(t *testing.T) {
	svc := simulated.New()
	signal := newStopSignal(nil)
	negotiator := newFocusNegotiator(svc, signal, nil)

	_, err := negotiator.acquire()
	require.NoError(t, err)
	svc.GrabFocus(audio.FocusGainTransientMayDuck)

	assert.False(t, signal.fired())
	require.NoError(t, negotiator.release())
}

func TestFocusNegotiatorReleasesOnce(t *testing.T) {
	svc := simulated.New()
	signal := newStopSignal(nil)
	negotiator := newFocusNegotiator(svc, signal, nil)

	_, err := negotiator.acquire()
	require.NoError(t, err)

	require.NoError(t, negotiator.release())
	require.NoError(t, negotiator.release())
	assert.Equal(t, 1, svc.Calls().AbandonFocus)
	assert.Zero(t, svc.FocusHolders())

	svc.GrabFocus(audio.FocusGainPermanent)
	assert.False(t, signal.fired(), "no loss is reported after release")
}

func TestFocusNegotiatorDeniedSkipsAbandon(t *testing.T) {
	svc := simulated.New(simulated.WithDenyFocus())
	negotiator := newFocusNegotiator(svc, newStopSignal(nil), nil)

	granted, err := negotiator.acquire()
	require.NoError(t, err)
	assert.False(t, granted)

	require.NoError(t, negotiator.release())
	assert.Zero(t, svc.Calls().AbandonFocus)
}
