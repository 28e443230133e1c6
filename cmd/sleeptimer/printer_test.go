package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/d4rk/musicsleeptimer/core/events"
)

func TestRenderDescribesEvents(t *testing.T) {
	for name, tt := range map[string]struct {
		event events.Event
		want  string
	}{
		"phase":    {events.NewRunPhaseChanged("run", events.PhaseFading), "fading"},
		"denied":   {events.NewFocusRequested("run", false), "audio focus denied"},
		"step":     {events.NewVolumeStepped("run", 1, 5), "volume 5 -> 4"},
		"restored": {events.NewVolumeRestored("run", 0, 5), "volume restored 0 -> 5"},
		"stopped":  {events.NewPlaybackStopDetected("run", "focus_loss"), "playback stopped (focus_loss)"},
		"failed":   {events.NewRunFinished("run", false, false, errors.New("boom")), "failed: boom"},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, render(tt.event), tt.want)
		})
	}
}

func TestPrinterWritesOneLinePerEvent(t *testing.T) {
	var out bytes.Buffer
	p := newPrinter(&out)

	p.print(events.NewRunStarted("run-1"))
	p.print(events.NewRunPhaseChanged("run-1", events.PhaseDone))

	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("\n")))
	assert.Contains(t, out.String(), "run-1")
}
