package pitch

// Debouncer confirms a note switch only after the detected note has been
// stable across a full window of recent detections. It keeps a fixed-capacity
// FIFO of the latest detections; a switch is confirmed when the window is
// full, the newest detection equals the oldest one and differs from the last
// confirmed note. The window is cleared after every confirmed switch.
type Debouncer struct {
	recent   []string
	head     int // index of the oldest detection
	count    int
	previous string
}

// NewDebouncer creates a debouncer with a window of the given number of
// detections. Capacities below one are raised to one.
func NewDebouncer(capacity int) *Debouncer {
	if capacity < 1 {
		capacity = 1
	}
	return &Debouncer{recent: make([]string, capacity)}
}

// Capacity returns the window size.
func (d *Debouncer) Capacity() int { return len(d.recent) }

// Len returns the number of detections currently held.
func (d *Debouncer) Len() int { return d.count }

// Previous returns the last confirmed note, or "" if none was confirmed yet.
func (d *Debouncer) Previous() string { return d.previous }

// SetPrevious sets the note treated as last confirmed.
func (d *Debouncer) SetPrevious(note string) { d.previous = note }

// Reset drops all detections and the last confirmed note.
func (d *Debouncer) Reset() {
	d.clear()
	d.previous = ""
}

// Observe records one detection and reports whether it confirms a switch.
func (d *Debouncer) Observe(note string) bool {
	capacity := len(d.recent)
	if d.count < capacity {
		d.recent[(d.head+d.count)%capacity] = note
		d.count++
	} else {
		// Full: overwrite the oldest and advance
		d.recent[d.head] = note
		d.head = (d.head + 1) % capacity
	}

	if d.count < capacity {
		return false
	}

	oldest := d.recent[d.head]
	if note == d.previous || note != oldest {
		return false
	}

	d.previous = note
	d.clear()
	return true
}

func (d *Debouncer) clear() {
	for i := range d.recent {
		d.recent[i] = ""
	}
	d.head = 0
	d.count = 0
}
