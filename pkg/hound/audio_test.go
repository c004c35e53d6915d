package hound

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeWAV(t *testing.T) {
	samples := make([]int16, 1600)
	for i := range samples {
		samples[i] = int16(i*20 - 16000)
	}

	data, err := EncodeWAV(samples, 16000, 1)
	require.NoError(t, err)

	require.Greater(t, len(data), 44)
	assert.Equal(t, "RIFF", string(data[0:4]))
	assert.Equal(t, "WAVE", string(data[8:12]))
	assert.Equal(t, uint32(len(data)-8), binary.LittleEndian.Uint32(data[4:8]))
	assert.Equal(t, 44+len(samples)*2, len(data))

	dec := wav.NewDecoder(bytes.NewReader(data))
	require.True(t, dec.IsValidFile())
	assert.Equal(t, uint32(16000), dec.SampleRate)
	assert.Equal(t, uint16(1), dec.NumChans)
	assert.Equal(t, uint16(16), dec.BitDepth)

	buf, err := dec.FullPCMBuffer()
	require.NoError(t, err)
	require.Len(t, buf.Data, len(samples))
	for i, s := range samples {
		assert.Equal(t, int(s), buf.Data[i])
	}
}

func TestEncodeWAVRejectsBadFormat(t *testing.T) {
	_, err := EncodeWAV([]int16{1, 2}, 0, 1)
	assert.True(t, IsErrorCode(err, ErrCodeAudioEncode))

	_, err = EncodeWAV([]int16{1, 2}, 16000, 0)
	assert.True(t, IsErrorCode(err, ErrCodeAudioEncode))
}

func TestWriteSeeker(t *testing.T) {
	ws := &writeSeeker{}
	_, err := ws.Write([]byte("hello world"))
	require.NoError(t, err)

	_, err = ws.Seek(0, 0)
	require.NoError(t, err)
	_, err = ws.Write([]byte("HELLO"))
	require.NoError(t, err)
	assert.Equal(t, "HELLO world", string(ws.buf))

	pos, err := ws.Seek(-5, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(6), pos)

	_, err = ws.Seek(-100, 1)
	assert.Error(t, err)
}

func TestCalculateRMS(t *testing.T) {
	assert.Zero(t, CalculateRMS(nil))
	assert.Zero(t, CalculateRMS(make([]int16, 100)))
	assert.InDelta(t, 0.5, CalculateRMS([]int16{16384, -16384, 16384, -16384}), 1e-9)
	assert.InDelta(t, 1.0, CalculateRMS([]int16{-32768}), 1e-9)
}
