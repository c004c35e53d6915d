package capture

import (
	"testing"

	"github.com/gordonklaus/portaudio"
	"github.com/rojolang/hound-sdk-go/pkg/hound"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevices() []*portaudio.DeviceInfo {
	return []*portaudio.DeviceInfo{
		{Name: "Speakers", MaxOutputChannels: 2},
		{Name: "Built-in Mic", MaxInputChannels: 1, DefaultSampleRate: 48000, HostApi: &portaudio.HostApiInfo{Name: "Core Audio"}},
		{Name: "USB Headset", MaxInputChannels: 2, DefaultSampleRate: 16000},
	}
}

func TestNewConfig(t *testing.T) {
	config := NewConfig()
	assert.Equal(t, 16000, config.SampleRate)
	assert.Equal(t, 1, config.Channels)
	assert.Equal(t, 16, config.BitDepth)
	assert.Nil(t, config.DeviceID)
}

func TestLookupDevice(t *testing.T) {
	devices := testDevices()

	device, err := lookupDevice(devices, 1)
	require.NoError(t, err)
	assert.Equal(t, "Built-in Mic", device.Name)

	for _, id := range []int{-1, 3, 0} {
		_, err := lookupDevice(devices, id)
		require.Error(t, err, "id %d", id)
		assert.True(t, hound.IsErrorCode(err, hound.ErrCodeAudioDevice))

		var hErr *hound.HoundError
		require.ErrorAs(t, err, &hErr)
		assert.Equal(t, id, hErr.Details["device_id"])
	}
}

func TestDeviceErrorKeepsCode(t *testing.T) {
	_, lookupErr := lookupDevice(nil, 7)
	err := deviceError(lookupErr, "open")
	assert.Equal(t, "device 7 not found", err.Message)
	assert.Equal(t, "open", err.Details["stage"])
	assert.Equal(t, 7, err.Details["device_id"])
}

func TestInputDevices(t *testing.T) {
	devices := testDevices()
	inputs := inputDevices(devices, devices[2])
	require.Len(t, inputs, 2)

	assert.Equal(t, 1, inputs[0].ID)
	assert.Equal(t, "Core Audio", inputs[0].HostAPI)
	assert.False(t, inputs[0].IsDefault)

	assert.Equal(t, 2, inputs[1].ID)
	assert.Equal(t, "Unknown", inputs[1].HostAPI)
	assert.True(t, inputs[1].IsDefault)
	assert.Equal(t, "* [2] USB Headset (Unknown) channels=2 rate=16000Hz", inputs[1].String())
}
