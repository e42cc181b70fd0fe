package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV encodes raw integer samples with the given layout.
func writeWAV(t *testing.T, sampleRate, bitDepth, channels int, data []int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)
	err = enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	})
	if err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return path
}

func TestFromPCM16(t *testing.T) {
	buf := FromPCM16([]int{0, 32767, -32767, 16384, -32768}, 8000)
	want := []float64{0, 1, -1, 16384.0 / 32767, -32768.0 / 32767}

	if buf.SampleRate != 8000 {
		t.Errorf("SampleRate = %d, want 8000", buf.SampleRate)
	}
	for i, w := range want {
		if buf.Samples[i] != w {
			t.Errorf("Samples[%d] = %v, want %v", i, buf.Samples[i], w)
		}
	}
}

func TestToPCM16Clips(t *testing.T) {
	buf := &AudioBuffer{Samples: []float64{0, 1, -1, 1.5, -2, 0.5}}
	got := buf.ToPCM16()
	want := []int{0, 32767, -32767, 32767, -32767, 16384}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ToPCM16()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestDuration(t *testing.T) {
	buf := &AudioBuffer{Samples: make([]float64, 22050), SampleRate: 44100}
	if got := buf.Duration(); got != 500*time.Millisecond {
		t.Errorf("Duration() = %v, want 500ms", got)
	}

	var nilBuf *AudioBuffer
	if got := nilBuf.Duration(); got != 0 {
		t.Errorf("nil Duration() = %v, want 0", got)
	}
}

func TestLoadWAV(t *testing.T) {
	data := []int{0, 1000, -1000, 32767, -32768, 42}
	path := writeWAV(t, 22050, 16, 1, data)

	buf, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if buf.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", buf.SampleRate)
	}
	if len(buf.Samples) != len(data) {
		t.Fatalf("len(Samples) = %d, want %d", len(buf.Samples), len(data))
	}
	for i, s := range data {
		if want := float64(s) / 32767; buf.Samples[i] != want {
			t.Errorf("Samples[%d] = %v, want %v", i, buf.Samples[i], want)
		}
	}
}

func TestLoadWAVRejects(t *testing.T) {
	garbage := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(garbage, []byte("definitely not a riff file"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want error
	}{
		{"stereo", writeWAV(t, 44100, 16, 2, []int{1, 2, 3, 4, 5, 6}), ErrNotMono},
		{"8-bit", writeWAV(t, 44100, 8, 1, []int{128, 130, 126, 128}), ErrUnsupportedBitDepth},
		{"24-bit", writeWAV(t, 44100, 24, 1, []int{1, -1, 1, -1}), ErrUnsupportedBitDepth},
		{"garbage", garbage, ErrInvalidWAV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWAV(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("LoadWAV error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := LoadWAV(filepath.Join(t.TempDir(), "missing.wav")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want os.ErrNotExist", err)
	}
}

func TestSaveWAVRoundTrip(t *testing.T) {
	orig := &AudioBuffer{SampleRate: 16000, Samples: make([]float64, 1600)}
	for i := range orig.Samples {
		orig.Samples[i] = 0.7 * math.Sin(2*math.Pi*50*float64(i)/16000)
	}

	path := filepath.Join(t.TempDir(), "capture.wav")
	if err := SaveWAV(path, orig); err != nil {
		t.Fatalf("SaveWAV: %v", err)
	}

	got, err := LoadWAV(path)
	if err != nil {
		t.Fatalf("LoadWAV: %v", err)
	}
	if got.SampleRate != orig.SampleRate || len(got.Samples) != len(orig.Samples) {
		t.Fatalf("got %d samples at %d Hz, want %d at %d Hz",
			len(got.Samples), got.SampleRate, len(orig.Samples), orig.SampleRate)
	}
	for i := range orig.Samples {
		if diff := math.Abs(got.Samples[i] - orig.Samples[i]); diff > 1.0/32767 {
			t.Fatalf("Samples[%d] = %v, want %v", i, got.Samples[i], orig.Samples[i])
		}
	}
}

func TestSaveWAVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.wav")
	if err := SaveWAV(path, &AudioBuffer{SampleRate: 44100}); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("SaveWAV error = %v, want ErrEmptyBuffer", err)
	}
	if err := SaveWAV(path, nil); !errors.Is(err, ErrEmptyBuffer) {
		t.Errorf("SaveWAV(nil) error = %v, want ErrEmptyBuffer", err)
	}
}
