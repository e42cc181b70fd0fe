package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/0xlemi/bassnote/internal/pitch"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

// Config holds all analysis and output settings.
type Config struct {
	// Analysis
	WindowSize     int     // samples per FFT frame
	OverlapDivisor int     // hop = WindowSize / OverlapDivisor (2 or 4)
	BassCutoff     float64 // Hz
	DebounceFrames int     // stable detections required before a switch
	Workers        int     // goroutines for frame analysis
	Backend        string  // gonum or godsp

	// Output
	LogLevel string
	Format   string // text or json
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		WindowSize:     pitch.DefaultWindowSize,
		OverlapDivisor: pitch.DefaultOverlapDivisor,
		BassCutoff:     pitch.DefaultBassCutoff,
		DebounceFrames: pitch.DefaultDebounceFrames,
		Workers:        1,
		Backend:        string(pitch.BackendGonum),
		LogLevel:       logrus.InfoLevel.String(),
		Format:         FormatText,
	}
}

// Load reads configuration from BASSNOTE_* environment variables on top of
// the defaults.
func Load() Config {
	d := Default()
	return Config{
		WindowSize:     envInt("BASSNOTE_WINDOW_SIZE", d.WindowSize),
		OverlapDivisor: envInt("BASSNOTE_OVERLAP_DIVISOR", d.OverlapDivisor),
		BassCutoff:     envFloat("BASSNOTE_BASS_CUTOFF", d.BassCutoff),
		DebounceFrames: envInt("BASSNOTE_DEBOUNCE_FRAMES", d.DebounceFrames),
		Workers:        envInt("BASSNOTE_WORKERS", d.Workers),
		Backend:        envStr("BASSNOTE_FFT_BACKEND", d.Backend),
		LogLevel:       envStr("BASSNOTE_LOG_LEVEL", d.LogLevel),
		Format:         envStr("BASSNOTE_FORMAT", d.Format),
	}
}

// BindFlags registers every setting on fs, using the current values as
// defaults so flags override the environment.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.WindowSize, "window-size", c.WindowSize, "samples per analysis frame")
	fs.IntVar(&c.OverlapDivisor, "overlap", c.OverlapDivisor, "overlap divisor, hop = window-size / overlap (2 or 4)")
	fs.Float64Var(&c.BassCutoff, "bass-cutoff", c.BassCutoff, "highest frequency (Hz) considered for the bass note")
	fs.IntVar(&c.DebounceFrames, "debounce", c.DebounceFrames, "stable detections required before a note switch is reported")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines used for frame analysis")
	fs.StringVar(&c.Backend, "fft", c.Backend, "FFT backend (gonum or godsp)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug, info, warn, error)")
	fs.StringVarP(&c.Format, "format", "o", c.Format, "output format (text or json)")
}

// Validate checks every setting.
func (c Config) Validate() error {
	switch {
	case c.WindowSize <= 0:
		return fmt.Errorf("%w: window size must be positive, got %d", ErrInvalidConfig, c.WindowSize)
	case c.OverlapDivisor != 2 && c.OverlapDivisor != 4:
		return fmt.Errorf("%w: overlap divisor must be 2 or 4, got %d", ErrInvalidConfig, c.OverlapDivisor)
	case c.WindowSize/c.OverlapDivisor < 1:
		return fmt.Errorf("%w: window size %d too small for overlap %d", ErrInvalidConfig, c.WindowSize, c.OverlapDivisor)
	case c.BassCutoff <= 0:
		return fmt.Errorf("%w: bass cutoff must be positive, got %g", ErrInvalidConfig, c.BassCutoff)
	case c.DebounceFrames < 1:
		return fmt.Errorf("%w: debounce must be at least 1, got %d", ErrInvalidConfig, c.DebounceFrames)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	case c.Format != FormatText && c.Format != FormatJSON:
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}
	if _, err := pitch.ParseBackend(c.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// HopSize returns the distance between frame starts.
func (c Config) HopSize() int {
	if c.OverlapDivisor <= 0 {
		return 0
	}
	return c.WindowSize / c.OverlapDivisor
}

// DetectorOptions converts the settings for pitch.NewSwitchDetector.
func (c Config) DetectorOptions(log logrus.FieldLogger) pitch.Options {
	return pitch.Options{
		WindowSize:     c.WindowSize,
		OverlapDivisor: c.OverlapDivisor,
		BassCutoff:     c.BassCutoff,
		DebounceFrames: c.DebounceFrames,
		Workers:        c.Workers,
		Backend:        pitch.Backend(c.Backend),
		Logger:         log,
	}
}
