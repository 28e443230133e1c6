package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "run started", event: NewRunStarted("run"), expected: KindRunStarted},
		{name: "run phase changed", event: NewRunPhaseChanged("run", PhaseWaiting), expected: KindRunPhaseChanged},
		{name: "run finished", event: NewRunFinished("run", true, true, nil), expected: KindRunFinished},
		{name: "focus requested", event: NewFocusRequested("run", true), expected: KindFocusRequested},
		{name: "focus lost", event: NewFocusLost("run", true), expected: KindFocusLost},
		{name: "volume stepped", event: NewVolumeStepped("run", 1, 7), expected: KindVolumeStepped},
		{name: "volume restored", event: NewVolumeRestored("run", 0, 7), expected: KindVolumeRestored},
		{name: "playback stop detected", event: NewPlaybackStopDetected("run", "focus_loss"), expected: KindPlaybackStopDetected},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, testCase.event.Kind())
			assert.Equal(t, "run", testCase.event.RunID())
			assert.False(t, testCase.event.Timestamp().IsZero())
		})
	}
}

func TestRunFinishedCarriesFailure(t *testing.T) {
	err := errors.New("cancelled")
	finished := NewRunFinished("run", false, false, err)

	assert.False(t, finished.Success)
	assert.ErrorIs(t, finished.Err, err)
}
