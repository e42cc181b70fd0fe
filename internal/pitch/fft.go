package pitch

import (
	"fmt"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
)

// Backend selects the FFT implementation used by a FrameAnalyzer.
type Backend string

const (
	// BackendGonum uses the planned real FFT from gonum's dsp/fourier.
	BackendGonum Backend = "gonum"
	// BackendGoDSP uses go-dsp's FFTReal and keeps the non-redundant half.
	BackendGoDSP Backend = "godsp"
)

// Backends lists the supported FFT backends.
var Backends = []Backend{BackendGonum, BackendGoDSP}

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	for _, b := range Backends {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}

// FrameAnalyzer turns one fixed-length frame of samples into a magnitude
// spectrum. The Hann window and FFT plan are computed once and reused, so an
// analyzer must not be shared between goroutines.
type FrameAnalyzer struct {
	size     int
	backend  Backend
	window   []float64    // Pre-calculated Hann coefficients
	plan     *fourier.FFT // nil unless backend is BackendGonum
	windowed []float64    // Scratch for the windowed frame
	coeffs   []complex128 // Scratch for the size/2+1 FFT bins
}

// NewFrameAnalyzer plans an analyzer for frames of the given size.
func NewFrameAnalyzer(size int, backend Backend) (*FrameAnalyzer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindowSize, size)
	}
	if backend == "" {
		backend = BackendGonum
	}
	if _, err := ParseBackend(string(backend)); err != nil {
		return nil, err
	}

	a := &FrameAnalyzer{
		size:     size,
		backend:  backend,
		window:   window.Hann(size),
		windowed: make([]float64, size),
		coeffs:   make([]complex128, size/2+1),
	}
	if backend == BackendGonum {
		a.plan = fourier.NewFFT(size)
	}
	return a, nil
}

// Size returns the frame length the analyzer was planned for.
func (a *FrameAnalyzer) Size() int { return a.size }

// Bins returns the number of spectrum bins produced per frame.
func (a *FrameAnalyzer) Bins() int { return a.size/2 + 1 }

// BinWidth returns the frequency spacing of adjacent bins in Hz.
func (a *FrameAnalyzer) BinWidth(sampleRate int) float64 {
	return float64(sampleRate) / float64(a.size)
}

// Magnitudes applies the Hann window to frame, runs the forward FFT and
// returns |X[k]| for k in [0, size/2].
func (a *FrameAnalyzer) Magnitudes(frame []float64) ([]float64, error) {
	if len(frame) != a.size {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFrameLength, len(frame), a.size)
	}

	for i, sample := range frame {
		a.windowed[i] = sample * a.window[i]
	}

	switch a.backend {
	case BackendGoDSP:
		// FFTReal returns the full symmetric spectrum
		copy(a.coeffs, fft.FFTReal(a.windowed)[:len(a.coeffs)])
	default:
		a.plan.Coefficients(a.coeffs, a.windowed)
	}

	magnitudes := make([]float64, len(a.coeffs))
	for k, c := range a.coeffs {
		magnitudes[k] = cmplx.Abs(c)
	}
	return magnitudes, nil
}
