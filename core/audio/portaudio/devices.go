// Package portaudio lists the host's output devices through PortAudio.
package portaudio

import (
	"fmt"

	"github.com/d4rk/musicsleeptimer/core/audio"
	"github.com/gordonklaus/portaudio"
)

// OutputLister enumerates devices with at least one output channel. PortAudio
// is initialized and terminated around every call.
type OutputLister struct{}

func (OutputLister) OutputDevices() (devices []audio.DeviceDescriptor, err error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize PortAudio: %w", err)
	}
	defer func() {
		if terminateErr := portaudio.Terminate(); terminateErr != nil && err == nil {
			err = fmt.Errorf("failed to terminate PortAudio: %w", terminateErr)
		}
	}()

	infos, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("failed to list PortAudio devices: %w", err)
	}

	for i, info := range infos {
		if info == nil || info.MaxOutputChannels <= 0 {
			continue
		}

		name := info.Name
		if info.HostApi != nil {
			name = fmt.Sprintf("%s (%s)", info.Name, info.HostApi.Name)
		}
		devices = append(devices, audio.DeviceDescriptor{
			ID:   fmt.Sprintf("portaudio:%d", i),
			Name: name,
			Type: audio.DeviceTypeHost,
		})
	}
	return devices, nil
}

func NewDeviceProbe() audio.DeviceProbe {
	return audio.EnumeratedDeviceProbe{Lister: OutputLister{}}
}
