// Package capture records microphone audio through PortAudio. It is kept out
// of package hound so that text-only users do not need cgo or libportaudio.
package capture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
	"github.com/rojolang/hound-sdk-go/pkg/hound"
)

type Config struct {
	SampleRate int
	Channels   int
	BitDepth   int
	BufferSize int
	DeviceID   *int
}

// NewConfig returns the format the speech endpoint expects:
// 16 kHz mono 16-bit PCM.
func NewConfig() *Config {
	return &Config{
		SampleRate: 16000,
		Channels:   1,
		BitDepth:   16,
		BufferSize: 1024,
	}
}

// Recorder captures PCM samples for a speech query.
type Recorder interface {
	Record(ctx context.Context, duration time.Duration) ([]int16, error)
}

// PortAudioRecorder records from an input device through PortAudio.
type PortAudioRecorder struct {
	config *Config
	logger *hound.HoundLogger
	mu     sync.Mutex
}

func NewPortAudioRecorder(config *Config) *PortAudioRecorder {
	if config == nil {
		config = NewConfig()
	}
	return &PortAudioRecorder{
		config: config,
		logger: hound.GetGlobalLogger().WithComponent("PortAudioRecorder"),
	}
}

// Record blocks until duration has elapsed or ctx is done, and returns the
// interleaved samples captured so far.
func (r *PortAudioRecorder) Record(ctx context.Context, duration time.Duration) ([]int16, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := portaudio.Initialize(); err != nil {
		return nil, hound.WrapError(err, hound.ErrCodeAudioDevice)
	}
	defer portaudio.Terminate()

	in := make([]int16, r.config.BufferSize*r.config.Channels)
	stream, err := r.openStream(in)
	if err != nil {
		return nil, deviceError(err, "open")
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, deviceError(err, "start")
	}
	defer stream.Stop()

	r.logger.WithField("duration", duration.String()).Info("Recording started")

	deadline := time.Now().Add(duration)
	total := int(duration.Seconds()*float64(r.config.SampleRate)) * r.config.Channels
	frames := make([]int16, 0, total)
	for time.Now().Before(deadline) {
		if err := ctx.Err(); err != nil {
			return frames, err
		}
		if err := stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
			return frames, deviceError(err, "read")
		}
		frames = append(frames, in...)
	}

	r.logger.WithField("samples", len(frames)).WithField("rms", hound.CalculateRMS(frames)).Info("Recording stopped")
	return frames, nil
}

func (r *PortAudioRecorder) openStream(in []int16) (*portaudio.Stream, error) {
	if r.config.DeviceID == nil {
		return portaudio.OpenDefaultStream(r.config.Channels, 0, float64(r.config.SampleRate), r.config.BufferSize, in)
	}

	devices, err := portaudio.Devices()
	if err != nil {
		return nil, err
	}
	device, err := lookupDevice(devices, *r.config.DeviceID)
	if err != nil {
		return nil, err
	}
	params := portaudio.LowLatencyParameters(device, nil)
	params.Input.Channels = r.config.Channels
	params.SampleRate = float64(r.config.SampleRate)
	params.FramesPerBuffer = r.config.BufferSize
	return portaudio.OpenStream(params, in)
}

// lookupDevice picks the device with the given id, as listed by
// ListInputDevices.
func lookupDevice(devices []*portaudio.DeviceInfo, id int) (*portaudio.DeviceInfo, error) {
	if id < 0 || id >= len(devices) {
		return nil, hound.NewAudioError(fmt.Sprintf("device %d not found", id)).AddDetail("device_id", id)
	}
	if devices[id].MaxInputChannels == 0 {
		return nil, hound.NewAudioError(fmt.Sprintf("device %d has no input channels", id)).AddDetail("device_id", id)
	}
	return devices[id], nil
}

// deviceError tags err with the failing stage, wrapping it unless it already
// carries a code.
func deviceError(err error, stage string) *hound.HoundError {
	var hErr *hound.HoundError
	if !errors.As(err, &hErr) {
		hErr = hound.WrapError(err, hound.ErrCodeAudioDevice)
	}
	return hErr.AddDetail("stage", stage)
}
