package pitch

import (
	"context"
	"errors"
	"time"

	"github.com/0xlemi/bassnote/internal/audio"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Errors
var (
	ErrInvalidWindowSize = errors.New("invalid window size")
	ErrFrameLength       = errors.New("frame length mismatch")
	ErrUnknownBackend    = errors.New("unknown FFT backend")
	ErrInvalidSampleRate = errors.New("invalid sample rate")
)

// Default analysis settings
const (
	DefaultWindowSize     = 2048 * 8
	DefaultOverlapDivisor = 4
	DefaultBassCutoff     = 80.0
	DefaultDebounceFrames = 10
)

// NoteEvent is a confirmed switch of the bass root note.
type NoteEvent struct {
	Name      string
	Frequency float64
	Frame     int           // Index of the frame that confirmed the switch
	Offset    time.Duration // Start of that frame in the buffer
}

// Result holds the events of one run along with scan counters.
type Result struct {
	Events []NoteEvent
	Frames int // Frames analyzed
	Voiced int // Frames that produced a bass peak
}

// Detector defines the interface for bass note switch detection
type Detector interface {
	// DetectSwitches scans a whole buffer and returns the confirmed switches
	DetectSwitches(ctx context.Context, buffer *audio.AudioBuffer) (*Result, error)
}

// Options configures a SwitchDetector.
type Options struct {
	WindowSize     int     // Samples per frame
	OverlapDivisor int     // Hop is WindowSize / OverlapDivisor
	BassCutoff     float64 // Highest frequency considered for the bass peak (Hz)
	DebounceFrames int     // Detections a note must stay stable before it is emitted
	Workers        int     // Goroutines used for frame analysis, 1 runs inline
	Backend        Backend
	Logger         logrus.FieldLogger
}

// DefaultOptions returns the settings the analyzer was tuned with.
func DefaultOptions() Options {
	return Options{
		WindowSize:     DefaultWindowSize,
		OverlapDivisor: DefaultOverlapDivisor,
		BassCutoff:     DefaultBassCutoff,
		DebounceFrames: DefaultDebounceFrames,
		Workers:        1,
		Backend:        BackendGonum,
	}
}

// HopSize returns the distance between frame starts. It is zero when the
// divisor is not positive or larger than the window.
func (o Options) HopSize() int {
	if o.OverlapDivisor <= 0 {
		return 0
	}
	return o.WindowSize / o.OverlapDivisor
}

// SwitchDetector scans a buffer in overlapping frames, picks the bass peak of
// each frame and debounces the resulting note names into switch events.
type SwitchDetector struct {
	opts     Options
	analyzer *FrameAnalyzer
	log      logrus.FieldLogger
}

// NewSwitchDetector plans the FFT for the configured window size.
func NewSwitchDetector(opts Options) (*SwitchDetector, error) {
	analyzer, err := NewFrameAnalyzer(opts.WindowSize, opts.Backend)
	if err != nil {
		return nil, err
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &SwitchDetector{
		opts:     opts,
		analyzer: analyzer,
		log:      log,
	}, nil
}

// framePeak is the bass peak of one frame, ok is false for unvoiced frames.
type framePeak struct {
	peak Peak
	ok   bool
}

// DetectSwitches analyzes every full frame of buffer and returns the
// debounced note switches in frame order.
func (d *SwitchDetector) DetectSwitches(ctx context.Context, buffer *audio.AudioBuffer) (*Result, error) {
	if buffer == nil {
		return &Result{}, nil
	}
	if buffer.SampleRate <= 0 {
		return nil, ErrInvalidSampleRate
	}

	hop := d.opts.HopSize()
	frames := frameCount(len(buffer.Samples), d.opts.WindowSize, hop)
	if frames == 0 {
		d.log.WithFields(logrus.Fields{
			"samples": len(buffer.Samples),
			"window":  d.opts.WindowSize,
			"hop":     hop,
		}).Debug("Buffer too short for a single frame")
		return &Result{}, nil
	}

	peaks, err := d.scan(ctx, buffer, frames, hop)
	if err != nil {
		return nil, err
	}

	result := &Result{Frames: frames}
	debouncer := NewDebouncer(d.opts.DebounceFrames)

	for i, fp := range peaks {
		if !fp.ok {
			continue
		}
		result.Voiced++

		name := MIDIToNoteName(FrequencyToMIDI(fp.peak.Frequency))
		if !debouncer.Observe(name) {
			continue
		}

		start := i * hop
		event := NoteEvent{
			Name:      name,
			Frequency: fp.peak.Frequency,
			Frame:     i,
			Offset:    time.Duration(float64(start) / float64(buffer.SampleRate) * float64(time.Second)),
		}
		result.Events = append(result.Events, event)

		d.log.WithFields(logrus.Fields{
			"note":      event.Name,
			"frequency": event.Frequency,
			"frame":     event.Frame,
			"offset":    event.Offset,
		}).Debug("Detected bass note switch")
	}

	d.log.WithFields(logrus.Fields{
		"frames": result.Frames,
		"voiced": result.Voiced,
		"events": len(result.Events),
	}).Debug("Scan complete")

	return result, nil
}

// scan computes the bass peak of every frame. With more than one worker the
// frames are split into contiguous chunks, each analyzed with its own
// FrameAnalyzer; results are indexed by frame so order is preserved.
func (d *SwitchDetector) scan(ctx context.Context, buffer *audio.AudioBuffer, frames, hop int) ([]framePeak, error) {
	peaks := make([]framePeak, frames)
	binWidth := d.analyzer.BinWidth(buffer.SampleRate)

	workers := d.opts.Workers
	if workers > frames {
		workers = frames
	}
	if workers <= 1 {
		return peaks, d.scanRange(ctx, d.analyzer, buffer.Samples, peaks, 0, frames, hop, binWidth)
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (frames + workers - 1) / workers
	for from := 0; from < frames; from += chunk {
		to := min(from+chunk, frames)
		g.Go(func() error {
			analyzer, err := NewFrameAnalyzer(d.opts.WindowSize, d.opts.Backend)
			if err != nil {
				return err
			}
			return d.scanRange(ctx, analyzer, buffer.Samples, peaks, from, to, hop, binWidth)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return peaks, nil
}

func (d *SwitchDetector) scanRange(ctx context.Context, analyzer *FrameAnalyzer, samples []float64, peaks []framePeak, from, to, hop int, binWidth float64) error {
	for i := from; i < to; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := i * hop
		magnitudes, err := analyzer.Magnitudes(samples[start : start+d.opts.WindowSize])
		if err != nil {
			return err
		}
		peak, ok := PickBassPeak(magnitudes, binWidth, d.opts.BassCutoff)
		peaks[i] = framePeak{peak: peak, ok: ok}
	}
	return nil
}

// frameCount returns how many frames start at multiples of hop while
// start+window stays strictly below length.
func frameCount(length, window, hop int) int {
	if hop < 1 || window < 1 || length <= window {
		return 0
	}
	return (length-window-1)/hop + 1
}
