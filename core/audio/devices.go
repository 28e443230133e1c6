package audio

import (
	"context"
	"fmt"
)

type DeviceType int

const (
	DeviceTypeUnknown          DeviceType = 0
	DeviceTypeBuiltinEarpiece  DeviceType = 1
	DeviceTypeBuiltinSpeaker   DeviceType = 2
	DeviceTypeWiredHeadset     DeviceType = 3
	DeviceTypeWiredHeadphones  DeviceType = 4
	DeviceTypeBluetoothA2DP    DeviceType = 8
	DeviceTypeHDMI             DeviceType = 9
	DeviceTypeUSBDevice        DeviceType = 11
	DeviceTypeRemoteSubmix     DeviceType = 25
	DeviceTypeBLEHeadset       DeviceType = 26
	// DeviceTypeHost marks an output enumerated through a host audio library
	// that does not report a finer device classification.
	DeviceTypeHost             DeviceType = 1000
)

type DeviceDescriptor struct {
	ID   string
	Name string
	Type DeviceType
}

type OutputDeviceLister interface {
	OutputDevices() ([]DeviceDescriptor, error)
}

// SupportedOutputTypesLister is implemented by services running on platform
// versions that can list supported output types without enumerating devices.
type SupportedOutputTypesLister interface {
	SupportedOutputDeviceTypes() ([]DeviceType, error)
}

// DeviceProbe answers whether there is any output the fade out can act on.
// Implementations never fail: anything they cannot determine is reported as
// no controllable output.
type DeviceProbe interface {
	HasControllableOutput(ctx context.Context) bool
}

// NewDeviceProbe picks the supported-types probe when the service offers it
// and falls back to enumerating output devices otherwise.
func NewDeviceProbe(service Service) DeviceProbe {
	if lister, ok := service.(SupportedOutputTypesLister); ok {
		return SupportedTypesProbe{Lister: lister}
	}

	return EnumeratedDeviceProbe{Lister: service}
}

type EnumeratedDeviceProbe struct {
	Lister OutputDeviceLister
}

func (p EnumeratedDeviceProbe) HasControllableOutput(ctx context.Context) (ok bool) {
	if p.Lister == nil {
		return false
	}
	defer recoverProbe(ctx, "enumerate output devices", &ok)

	devices, err := p.Lister.OutputDevices()
	if err != nil {
		logger.WarnContext(ctx, "failed to enumerate output devices", "error", err)
		return false
	}

	for _, device := range devices {
		if device.Type != DeviceTypeUnknown {
			return true
		}
	}
	return false
}

type SupportedTypesProbe struct {
	Lister SupportedOutputTypesLister
}

func (p SupportedTypesProbe) HasControllableOutput(ctx context.Context) (ok bool) {
	if p.Lister == nil {
		return false
	}
	defer recoverProbe(ctx, "list supported output types", &ok)

	types, err := p.Lister.SupportedOutputDeviceTypes()
	if err != nil {
		logger.WarnContext(ctx, "failed to list supported output device types", "error", err)
		return false
	}

	for _, deviceType := range types {
		if deviceType != DeviceTypeUnknown {
			return true
		}
	}
	return false
}

func recoverProbe(ctx context.Context, operation string, ok *bool) {
	if recovered := recover(); recovered != nil {
		logger.WarnContext(ctx, "device probe panicked", "error", fmt.Errorf("%s: %v", operation, recovered))
		*ok = false
	}
}
