package audio

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavFormatPCM is the WAVE_FORMAT_PCM tag of the fmt chunk.
const wavFormatPCM = 1

// LoadWAV reads a 16-bit mono PCM WAV file into a normalized buffer.
func LoadWAV(path string) (*AudioBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buffer, err := DecodeWAV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buffer, nil
}

// DecodeWAV decodes a 16-bit mono PCM WAV stream into a normalized buffer.
func DecodeWAV(r io.ReadSeeker) (*AudioBuffer, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if decoder.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: format tag %d", ErrNotPCM, decoder.WavAudioFormat)
	}
	if decoder.BitDepth != 16 {
		return nil, fmt.Errorf("%w: %d bits", ErrUnsupportedBitDepth, decoder.BitDepth)
	}
	if decoder.NumChans != 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrNotMono, decoder.NumChans)
	}

	pcm, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("read PCM data: %w", err)
	}
	return FromPCM16(pcm.Data, int(decoder.SampleRate)), nil
}

// SaveWAV writes the buffer as a 16-bit mono PCM WAV file.
func SaveWAV(path string, buffer *AudioBuffer) error {
	if buffer == nil || len(buffer.Samples) == 0 {
		return ErrEmptyBuffer
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	encoder := wav.NewEncoder(f, buffer.SampleRate, 16, 1, wavFormatPCM)
	err = encoder.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: buffer.SampleRate},
		Data:           buffer.ToPCM16(),
		SourceBitDepth: 16,
	})
	if err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := encoder.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return f.Close()
}
