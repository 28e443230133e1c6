// Package miniaudio lists the host's playback devices through miniaudio. It
// lets the sleeptimer command decide whether the machine it runs on has any
// output at all.
package miniaudio

import (
	"fmt"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/gen2brain/malgo"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const scopeName = "github.com/d4rk/musicsleeptimer/core/audio/miniaudio"

var logger = otelslog.NewLogger(scopeName)

// OutputLister enumerates playback devices. Every call initializes and tears
// down its own miniaudio context, so the lister holds no native resources.
type OutputLister struct {
	// Backends restricts the backends miniaudio tries. Nil means the platform
	// default order.
	Backends []malgo.Backend
}

func NewOutputLister(backends ...malgo.Backend) *OutputLister {
	return &OutputLister{Backends: backends}
}

func (l *OutputLister) OutputDevices() ([]audio.DeviceDescriptor, error) {
	audioCtx, err := malgo.InitContext(l.Backends, malgo.ContextConfig{}, func(message string) {
		logger.Debug("malgo", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize miniaudio context: %w", err)
	}
	defer func() {
		_ = audioCtx.Uninit()
		audioCtx.Free()
	}()

	infos, err := audioCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to list playback devices: %w", err)
	}

	devices := make([]audio.DeviceDescriptor, 0, len(infos))
	for i := range infos {
		devices = append(devices, audio.DeviceDescriptor{
			ID:   fmt.Sprintf("miniaudio:%d", i),
			Name: infos[i].Name(),
			Type: audio.DeviceTypeHost,
		})
	}
	return devices, nil
}

// NewDeviceProbe reports a controllable output when miniaudio finds at least
// one playback device.
func NewDeviceProbe(backends ...malgo.Backend) audio.DeviceProbe {
	return audio.EnumeratedDeviceProbe{Lister: NewOutputLister(backends...)}
}
