package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/0xlemi/bassnote/internal/pitch"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// WriteText prints one line per event. Styled output colours the note name
// and adds the time of the switch.
func WriteText(w io.Writer, events []pitch.NoteEvent, styled bool) error {
	for _, ev := range events {
		var line string
		if styled {
			line = fmt.Sprintf("Detected bass note switch: %s at %.2f Hz %s",
				noteLabel(ev.Name).Render(ev.Name),
				ev.Frequency,
				infoStyle.Render("@ "+formatOffset(ev.Offset)))
		} else {
			line = fmt.Sprintf("Detected bass note switch: %s at %.2f Hz", ev.Name, ev.Frequency)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

type jsonEvent struct {
	Note      string  `json:"note"`
	Frequency float64 `json:"frequency"`
	Frame     int     `json:"frame"`
	Offset    float64 `json:"offset_seconds"`
}

type jsonReport struct {
	Source string      `json:"source,omitempty"`
	Frames int         `json:"frames"`
	Voiced int         `json:"voiced_frames"`
	Events []jsonEvent `json:"events"`
}

// WriteJSON writes the result as an indented JSON document.
func WriteJSON(w io.Writer, source string, result *pitch.Result) error {
	report := jsonReport{
		Source: source,
		Frames: result.Frames,
		Voiced: result.Voiced,
		Events: make([]jsonEvent, 0, len(result.Events)),
	}
	for _, ev := range result.Events {
		report.Events = append(report.Events, jsonEvent{
			Note:      ev.Name,
			Frequency: ev.Frequency,
			Frame:     ev.Frame,
			Offset:    ev.Offset.Seconds(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// formatOffset renders d as mm:ss.cc
func formatOffset(d time.Duration) string {
	minutes := int(d / time.Minute)
	seconds := (d % time.Minute).Seconds()
	return fmt.Sprintf("%02d:%05.2f", minutes, seconds)
}

// noteLabel is an inline (borderless) variant of the note badge.
func noteLabel(name string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(noteColors[string(name[0])])).
		PaddingLeft(1).
		PaddingRight(1)
}
