package pitch

import (
	"fmt"
	"math"
)

// Reference pitch for MIDI note 69 (A4).
const (
	referenceMIDI      = 69.0
	referenceFrequency = 440.0
)

// All note names in chromatic order
var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Note represents a musical note
type Note struct {
	Name      string  // e.g., "A", "A#", "B"
	Octave    int     // e.g., 4 for middle C (C4)
	MIDI      int     // Rounded MIDI number, 69 for A4
	Frequency float64 // Frequency in Hz
	Cents     float64 // Cents deviation from perfect pitch (-50 to +50)
}

// String returns the note name with its octave, e.g. "A4".
func (n Note) String() string {
	return fmt.Sprintf("%s%d", n.Name, n.Octave)
}

// FrequencyToMIDI converts a frequency in Hz to a fractional MIDI number.
// The frequency must be positive.
func FrequencyToMIDI(frequency float64) float64 {
	return referenceMIDI + 12*math.Log2(frequency/referenceFrequency)
}

// MIDIToNoteName rounds a fractional MIDI number to the nearest semitone and
// formats it as pitch class plus octave, e.g. 60 -> "C4".
func MIDIToNoteName(midi float64) string {
	name, octave := splitMIDI(int(math.Round(midi)))
	return fmt.Sprintf("%s%d", name, octave)
}

// NoteFromFrequency converts a frequency to a musical note
func NoteFromFrequency(frequency float64) Note {
	midi := FrequencyToMIDI(frequency)
	rounded := math.Round(midi)
	name, octave := splitMIDI(int(rounded))

	return Note{
		Name:      name,
		Octave:    octave,
		MIDI:      int(rounded),
		Frequency: frequency,
		Cents:     100 * (midi - rounded),
	}
}

// splitMIDI returns the pitch class name and octave of an integer MIDI number.
func splitMIDI(midi int) (string, int) {
	index := midi % 12
	if index < 0 {
		index += 12
	}
	octave := int(math.Floor(float64(midi)/12)) - 1
	return noteNames[index], octave
}
