package orchestration

import (
	"slices"
	"sync"

	"github.com/d4rk/musicsleeptimer/core/audio"
)

// playbackStopDetector fires the stop signal the first time no relevant
// playback is reported active. Once unsubscribe returns, the callback never
// touches the signal again.
type playbackStopDetector struct {
	service audio.Service
	probe   audio.ActivityProbe
	signal  *stopSignal

	mu           sync.RWMutex
	subscription audio.PlaybackSubscription
	subscribed   bool
	closed       bool
}

func newPlaybackStopDetector(service audio.Service, probe audio.ActivityProbe, signal *stopSignal) *playbackStopDetector {
	return &playbackStopDetector{service: service, probe: probe, signal: signal}
}

func (d *playbackStopDetector) subscribe() error {
	subscription, err := d.service.RegisterPlaybackCallback(d.onPlaybackChanged)
	if err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.subscription = subscription
	d.subscribed = true
	return nil
}

func (d *playbackStopDetector) onPlaybackChanged(configs []audio.PlaybackConfiguration) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return
	}

	if slices.ContainsFunc(configs, d.isRelevantActive) {
		return
	}
	d.signal.fire(StopSourcePlaybackCallback)
}

func (d *playbackStopDetector) isRelevantActive(config audio.PlaybackConfiguration) bool {
	return audio.IsRelevantPlaybackActive(d.probe, config)
}

// shortCircuit fires the signal right away when the coarse flag already
// reports no music. A stopped player produces no further playback change, so
// waiting for a notification would only run into the timeout.
func (d *playbackStopDetector) shortCircuit() bool {
	if d.service.IsMusicActive() {
		return false
	}

	d.signal.fire(StopSourceCoarseCheck)
	return true
}

// unsubscribe is safe to call more than once and before subscribe.
func (d *playbackStopDetector) unsubscribe() error {
	d.mu.Lock()
	d.closed = true
	subscribed, subscription := d.subscribed, d.subscription
	d.subscribed = false
	d.mu.Unlock()

	if !subscribed {
		return nil
	}
	return d.service.UnregisterPlaybackCallback(subscription)
}
