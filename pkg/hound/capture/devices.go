package capture

import (
	"fmt"
	"strings"

	"github.com/gordonklaus/portaudio"
	"github.com/rojolang/hound-sdk-go/pkg/hound"
)

// Device represents an audio input device
type Device struct {
	ID                int
	Name              string
	MaxInputChannels  int
	DefaultSampleRate float64
	IsDefault         bool
	HostAPI           string
}

// ListInputDevices returns every PortAudio device that can record.
func ListInputDevices() ([]Device, error) {
	logger := hound.GetGlobalLogger().WithComponent("AudioDevices")

	if err := portaudio.Initialize(); err != nil {
		return nil, hound.WrapError(err, hound.ErrCodeAudioDevice)
	}
	defer portaudio.Terminate()

	defaultInput, err := portaudio.DefaultInputDevice()
	if err != nil {
		logger.WithError(err).Warn("No default input device")
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, hound.WrapError(err, hound.ErrCodeAudioDevice)
	}

	logger.WithField("device_count", len(devices)).Debug("PortAudio devices enumerated")
	return inputDevices(devices, defaultInput), nil
}

func inputDevices(devices []*portaudio.DeviceInfo, defaultInput *portaudio.DeviceInfo) []Device {
	inputs := make([]Device, 0, len(devices))
	for i, dev := range devices {
		if dev.MaxInputChannels == 0 {
			continue
		}
		hostAPIName := "Unknown"
		if dev.HostApi != nil {
			hostAPIName = dev.HostApi.Name
		}
		inputs = append(inputs, Device{
			ID:                i,
			Name:              dev.Name,
			MaxInputChannels:  dev.MaxInputChannels,
			DefaultSampleRate: dev.DefaultSampleRate,
			IsDefault:         defaultInput != nil && dev == defaultInput,
			HostAPI:           hostAPIName,
		})
	}
	return inputs
}

// String formats the device for terminal listings.
func (d Device) String() string {
	var sb strings.Builder
	marker := " "
	if d.IsDefault {
		marker = "*"
	}
	fmt.Fprintf(&sb, "%s [%d] %s (%s)", marker, d.ID, d.Name, d.HostAPI)
	fmt.Fprintf(&sb, " channels=%d rate=%.0fHz", d.MaxInputChannels, d.DefaultSampleRate)
	return sb.String()
}
