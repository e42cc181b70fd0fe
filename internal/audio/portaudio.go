package audio

import (
	"sync"

	"github.com/gordonklaus/portaudio"
)

// PortAudioCapturer records from the default input device using PortAudio.
// Captured audio is accumulated in memory until Stop, up to maxSamples.
type PortAudioCapturer struct {
	isCapturing bool
	stream      *portaudio.Stream
	samples     []float64
	maxSamples  int
	bufferSize  int
	sampleRate  int
	channels    int
	bufferMutex sync.Mutex
}

// NewPortAudioCapturer creates a new audio capturer using PortAudio. maxSamples
// bounds the recording length, zero means unbounded.
func NewPortAudioCapturer(bufferSize, sampleRate, channels, maxSamples int) (*PortAudioCapturer, error) {
	// Initialize PortAudio
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	return &PortAudioCapturer{
		samples:    make([]float64, 0, max(maxSamples, bufferSize)),
		maxSamples: maxSamples,
		bufferSize: bufferSize,
		sampleRate: sampleRate,
		channels:   channels,
	}, nil
}

// Start begins audio capture
func (c *PortAudioCapturer) Start() error {
	if c.isCapturing {
		return ErrAlreadyCapturing
	}

	// Open default input stream
	var err error
	c.stream, err = portaudio.OpenDefaultStream(
		c.channels, // input channels
		0,          // output channels (we don't need output)
		float64(c.sampleRate),
		c.bufferSize/c.channels, // frames per buffer
		c.processAudio,          // callback function
	)
	if err != nil {
		return err
	}

	if err := c.stream.Start(); err != nil {
		c.stream.Close()
		return err
	}

	c.isCapturing = true
	return nil
}

// Stop ends audio capture and releases PortAudio
func (c *PortAudioCapturer) Stop() error {
	if !c.isCapturing {
		return ErrNotCapturing
	}

	if err := c.stream.Stop(); err != nil {
		return err
	}
	if err := c.stream.Close(); err != nil {
		return err
	}
	if err := portaudio.Terminate(); err != nil {
		return err
	}

	c.isCapturing = false
	return nil
}

// processAudio is the PortAudio callback; multi-channel input is averaged
// down to mono.
func (c *PortAudioCapturer) processAudio(in []float32) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	frames := len(in) / c.channels
	for i := 0; i < frames; i++ {
		if c.maxSamples > 0 && len(c.samples) >= c.maxSamples {
			return
		}
		sum := float32(0)
		for ch := 0; ch < c.channels; ch++ {
			sum += in[i*c.channels+ch]
		}
		c.samples = append(c.samples, float64(sum/float32(c.channels)))
	}
}

// GetBuffer returns a copy of everything captured so far
func (c *PortAudioCapturer) GetBuffer() (*AudioBuffer, error) {
	c.bufferMutex.Lock()
	defer c.bufferMutex.Unlock()

	if len(c.samples) == 0 {
		return nil, ErrEmptyBuffer
	}

	bufferCopy := &AudioBuffer{
		Samples:    make([]float64, len(c.samples)),
		SampleRate: c.sampleRate,
	}
	copy(bufferCopy.Samples, c.samples)

	return bufferCopy, nil
}

// IsCapturing returns true if currently capturing audio
func (c *PortAudioCapturer) IsCapturing() bool {
	return c.isCapturing
}
