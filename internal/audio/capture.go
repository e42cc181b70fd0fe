package audio

import (
	"errors"
	"math"
	"time"
)

// Errors
var (
	ErrEmptyBuffer         = errors.New("empty audio buffer")
	ErrInvalidWAV          = errors.New("invalid WAV file")
	ErrNotPCM              = errors.New("audio is not linear PCM")
	ErrUnsupportedBitDepth = errors.New("unsupported bit depth")
	ErrNotMono             = errors.New("audio is not mono")
	ErrAlreadyCapturing    = errors.New("audio capture already started")
	ErrNotCapturing        = errors.New("audio capture not started")
)

// pcm16Scale is the largest magnitude of a signed 16-bit sample.
const pcm16Scale = math.MaxInt16

// AudioBuffer represents a buffer of mono audio samples normalized to [-1, 1]
type AudioBuffer struct {
	Samples    []float64
	SampleRate int
}

// Duration returns the playback length of the buffer.
func (b *AudioBuffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(b.Samples)) / float64(b.SampleRate) * float64(time.Second))
}

// FromPCM16 normalizes signed 16-bit samples by dividing by 32767.
func FromPCM16(samples []int, sampleRate int) *AudioBuffer {
	normalized := make([]float64, len(samples))
	for i, s := range samples {
		normalized[i] = float64(s) / pcm16Scale
	}
	return &AudioBuffer{Samples: normalized, SampleRate: sampleRate}
}

// ToPCM16 quantizes the buffer back to signed 16-bit values, clipping
// anything outside [-1, 1].
func (b *AudioBuffer) ToPCM16() []int {
	out := make([]int, len(b.Samples))
	for i, s := range b.Samples {
		s = math.Max(-1, math.Min(1, s))
		out[i] = int(math.Round(s * pcm16Scale))
	}
	return out
}

// Capturer defines the interface for audio capture
type Capturer interface {
	// Start begins audio capture
	Start() error

	// Stop ends audio capture
	Stop() error

	// GetBuffer returns everything captured so far
	GetBuffer() (*AudioBuffer, error)

	// IsCapturing returns true if currently capturing audio
	IsCapturing() bool
}

// Record starts c, captures for d and returns the recording. It stops early
// when done is closed.
func Record(c Capturer, d time.Duration, done <-chan struct{}) (*AudioBuffer, error) {
	if err := c.Start(); err != nil {
		return nil, err
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-done:
	}

	buffer, err := c.GetBuffer()
	if stopErr := c.Stop(); err == nil {
		err = stopErr
	}
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
