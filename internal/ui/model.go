package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/0xlemi/bassnote/internal/pitch"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(2).
			PaddingRight(2).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#CCCCCC"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4"))

	// Note colors
	noteColors = map[string]string{
		"C": "#E8D6B0", // Beige
		"D": "#A020F0", // Purple
		"E": "#FFFF00", // Yellow
		"F": "#FFA500", // Orange
		"G": "#00FF00", // Green
		"A": "#FF0000", // Red
		"B": "#0000FF", // Blue
	}
)

// badgeStyle is the boxed note style; sharps are rendered in two halves by
// renderBadge.
func badgeStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FAFAFA")).
		Background(lipgloss.Color(color)).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#333333")).
		Padding(2, 4)
}

// Get the next note in the scale (for sharp note colors)
func getNextNote(note string) string {
	switch note {
	case "C":
		return "D"
	case "D":
		return "E"
	case "E":
		return "F"
	case "F":
		return "G"
	case "G":
		return "A"
	case "A":
		return "B"
	default:
		return "C"
	}
}

// renderBadge draws a note name such as "A1" or "F#2" as a coloured box.
// Sharps are split between the colour of the natural note and the next one.
func renderBadge(name string) string {
	base := string(name[0])
	if !strings.HasPrefix(name[1:], "#") {
		return badgeStyle(noteColors[base]).Render(name)
	}

	left := badgeStyle(noteColors[base]).
		BorderRight(false).
		PaddingRight(1)
	right := badgeStyle(noteColors[getNextNote(base)]).
		BorderLeft(false).
		PaddingLeft(1)

	return lipgloss.JoinHorizontal(lipgloss.Top, left.Render(base), right.Render(name[1:]))
}

// Model is the interactive browser over the detected note switches
type Model struct {
	source   string
	duration time.Duration
	result   *pitch.Result
	cursor   int
	width    int
	height   int
}

// NewModel creates a browser for the events of one analysis run
func NewModel(source string, duration time.Duration, result *pitch.Result) Model {
	if result == nil {
		result = &pitch.Result{}
	}
	return Model{
		source:   source,
		duration: duration,
		result:   result,
	}
}

// Init initializes the UI model
func (m Model) Init() tea.Cmd {
	return nil
}

// Selected returns the event under the cursor.
func (m Model) Selected() (pitch.NoteEvent, bool) {
	if len(m.result.Events) == 0 {
		return pitch.NoteEvent{}, false
	}
	return m.result.Events[m.cursor], true
}

// Update updates the UI model based on messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.result.Events)-1 {
				m.cursor++
			}
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(len(m.result.Events)-1, 0)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}

	return m, nil
}

// visibleRange returns the slice of events that fits the terminal height.
func (m Model) visibleRange() (int, int) {
	n := len(m.result.Events)
	rows := n
	// Title, badge and footer take roughly 14 lines
	if m.height > 0 {
		rows = max(m.height-14, 3)
	}
	if rows >= n {
		return 0, n
	}
	start := min(max(m.cursor-rows/2, 0), n-rows)
	return start, start + rows
}

// View renders the UI
func (m Model) View() string {
	s := titleStyle.Render("BassNote - Bass Note Switches")
	s += "\n"
	s += infoStyle.Render(fmt.Sprintf("%s | %s | %d frames, %d voiced",
		m.source, formatOffset(m.duration), m.result.Frames, m.result.Voiced))
	s += "\n\n"

	ev, ok := m.Selected()
	if !ok {
		s += infoStyle.Render("No bass note switches detected.")
		s += "\n\n"
		s += infoStyle.Render("Press q to quit")
		return s
	}

	note := pitch.NoteFromFrequency(ev.Frequency)
	s += renderBadge(ev.Name)
	s += "\n"
	s += infoStyle.Render(fmt.Sprintf("Frequency: %.2f Hz | Cents: %+.1f | Frame %d @ %s",
		ev.Frequency, note.Cents, ev.Frame, formatOffset(ev.Offset)))
	s += "\n\n"

	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		e := m.result.Events[i]
		line := fmt.Sprintf("%s  %-4s %8.2f Hz", formatOffset(e.Offset), e.Name, e.Frequency)
		if i == m.cursor {
			s += cursorStyle.Render("> " + line)
		} else {
			s += "  " + line
		}
		s += "\n"
	}

	s += "\n"
	s += infoStyle.Render(fmt.Sprintf("%d/%d  ↑/↓ to move, q to quit", m.cursor+1, len(m.result.Events)))

	return s
}
