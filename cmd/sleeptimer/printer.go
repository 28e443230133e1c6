package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/d4rk/musicsleeptimer/core/events"
)

var (
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	phaseStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	volumeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	stopStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// printer renders run events one per line. Events arrive from the fade and
// callback goroutines, so writes are serialized.
type printer struct {
	mu  sync.Mutex
	out io.Writer
}

func newPrinter(out io.Writer) *printer {
	return &printer{out: out}
}

func (p *printer) print(event events.Event) {
	line := render(event)
	if line == "" {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %s\n", timeStyle.Render(event.Timestamp().Format("15:04:05.000")), line)
}

func render(event events.Event) string {
	switch e := event.(type) {
	case events.RunStarted:
		return phaseStyle.Render("run " + e.RunID())
	case events.RunPhaseChanged:
		return phaseStyle.Render(string(e.Phase))
	case events.FocusRequested:
		if e.Granted {
			return "audio focus granted"
		}
		return volumeStyle.Render("audio focus denied")
	case events.FocusLost:
		return stopStyle.Render(fmt.Sprintf("audio focus lost (transient: %t)", e.Transient))
	case events.VolumeStepped:
		return volumeStyle.Render(fmt.Sprintf("volume %d -> %d", e.Volume, e.Volume-1))
	case events.VolumeRestored:
		return volumeStyle.Render(fmt.Sprintf("volume restored %d -> %d", e.From, e.To))
	case events.PlaybackStopDetected:
		return stopStyle.Render("playback stopped (" + e.Source + ")")
	case events.RunFinished:
		if !e.Success {
			return failureStyle.Render(fmt.Sprintf("failed: %v", e.Err))
		}
		return phaseStyle.Render(fmt.Sprintf("finished (playback stopped: %t)", e.PlaybackStopped))
	default:
		return ""
	}
}
