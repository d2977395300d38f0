package state

// Control names a draggable control.
type Control int

const (
	ControlProgress Control = iota
	ControlVolume
	ControlBrightness
)

// Controls lists every draggable control.
var Controls = []Control{ControlProgress, ControlVolume, ControlBrightness}

func (c Control) String() string {
	switch c {
	case ControlProgress:
		return "progress"
	case ControlVolume:
		return "volume"
	case ControlBrightness:
		return "brightness"
	default:
		return "unknown"
	}
}

// Tracker records which controls the user is dragging plus the two
// time-suppression flags read by Reconcile. It is a plain value; copies are
// independent.
type Tracker struct {
	progress   bool
	volume     bool
	brightness bool

	// StopPending holds the displayed time at zero until the player itself
	// reports zero.
	StopPending bool
	// IgnoreNextTimeUpdate skips the time of exactly one snapshot.
	IgnoreNextTimeUpdate bool
}

// Begin marks c as being dragged. Calling it twice is harmless.
func (t *Tracker) Begin(c Control) {
	t.set(c, true)
}

// End clears c and reports whether it was active.
func (t *Tracker) End(c Control) bool {
	was := t.Active(c)
	t.set(c, false)
	return was
}

// Active reports whether c is being dragged.
func (t Tracker) Active(c Control) bool {
	switch c {
	case ControlProgress:
		return t.progress
	case ControlVolume:
		return t.volume
	case ControlBrightness:
		return t.brightness
	}
	return false
}

// AnyActive reports whether any control is being dragged.
func (t Tracker) AnyActive() bool {
	return t.progress || t.volume || t.brightness
}

// ReleaseAll ends every drag, as a pointer release outside any control does,
// and returns the controls that were active.
func (t *Tracker) ReleaseAll() []Control {
	var ended []Control
	for _, c := range Controls {
		if t.End(c) {
			ended = append(ended, c)
		}
	}
	return ended
}

func (t *Tracker) set(c Control, v bool) {
	switch c {
	case ControlProgress:
		t.progress = v
	case ControlVolume:
		t.volume = v
	case ControlBrightness:
		t.brightness = v
	}
}
