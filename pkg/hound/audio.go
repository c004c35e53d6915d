package hound

import (
	"errors"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// CalculateRMS returns the root mean square of samples, normalized to [0, 1].
func CalculateRMS(samples []int16) float64 {
	if len(samples) == 0 {
		return 0
	}

	var sum float64
	for _, sample := range samples {
		f := float64(sample) / 32768
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// EncodeWAV wraps 16-bit PCM samples in a WAV container.
func EncodeWAV(samples []int16, sampleRate, channels int) ([]byte, error) {
	if sampleRate <= 0 || channels <= 0 {
		return nil, NewHoundError("invalid sample rate or channel count", ErrCodeAudioEncode)
	}

	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s)
	}
	if err := enc.Write(buf); err != nil {
		enc.Close()
		return nil, WrapError(err, ErrCodeAudioEncode)
	}
	if err := enc.Close(); err != nil {
		return nil, WrapError(err, ErrCodeAudioEncode)
	}
	return ws.buf, nil
}

// writeSeeker is an in-memory io.WriteSeeker; the WAV encoder seeks back to
// patch chunk sizes on Close.
type writeSeeker struct {
	buf []byte
	pos int
}

func (w *writeSeeker) Write(p []byte) (int, error) {
	if end := w.pos + len(p); end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	n := copy(w.buf[w.pos:], p)
	w.pos += n
	return n, nil
}

func (w *writeSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, errors.New("writeSeeker: invalid whence")
	}
	if abs < 0 {
		return 0, errors.New("writeSeeker: negative position")
	}
	w.pos = int(abs)
	return abs, nil
}
