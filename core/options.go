package orchestration

import (
	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/d4rk/musicsleeptimer/core/events"
	"github.com/jonboulle/clockwork"
)

type OrchestratorOption func(*Orchestrator)

// WithClock replaces the real clock used for every delay.
func WithClock(clock clockwork.Clock) OrchestratorOption {
	return func(o *Orchestrator) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithDeviceProbe overrides the probe that decides whether a controllable
// output exists. By default it is derived from the service's capabilities.
func WithDeviceProbe(probe audio.DeviceProbe) OrchestratorOption {
	return func(o *Orchestrator) { o.deviceProbe = probe }
}

// WithActivityProbe selects how per-player activity is read from delivered
// playback configurations. Defaults to audio.CompatActivityProbe.
func WithActivityProbe(probe audio.ActivityProbe) OrchestratorOption {
	return func(o *Orchestrator) {
		if probe != nil {
			o.activityProbe = probe
		}
	}
}

// WithEventHandler receives run events. The handler must be safe for
// concurrent use and must not block.
func WithEventHandler(handler func(events.Event)) OrchestratorOption {
	return func(o *Orchestrator) {
		if handler == nil {
			o.emit = noopEventEmitter
			return
		}
		o.emit = handler
	}
}
