package state

import "math"

// Player is the local mirror of the remote player. It is mutated only by
// Reconcile and by optimistic commands.
type Player struct {
	CurrentFile    string // empty when nothing is loaded
	Playing        bool
	Looping        bool
	CurrentTimeSec float64
	TotalTimeSec   float64
	Volume         float64
	Brightness     float64
}

// NewPlayer returns the state used at startup and after a reset.
func NewPlayer() Player {
	return Player{Volume: 1.0, Brightness: 1.0}
}

// HasFile reports whether a file is loaded.
func (p Player) HasFile() bool {
	return p.CurrentFile != ""
}

// DisplayTime clamps the current time into [0, total] for rendering. The
// stored value is left alone; it may run past the total under lag.
func (p Player) DisplayTime() float64 {
	t := p.CurrentTimeSec
	if t < 0 || math.IsNaN(t) {
		return 0
	}
	if p.TotalTimeSec > 0 && t > p.TotalTimeSec {
		return p.TotalTimeSec
	}
	return t
}

// Progress returns the displayed position as a fraction of the total.
func (p Player) Progress() float64 {
	if p.TotalTimeSec <= 0 {
		return 0
	}
	return p.DisplayTime() / p.TotalTimeSec
}

// CanPlay reports whether play is meaningful.
func (p Player) CanPlay() bool { return p.HasFile() && !p.Playing }

// CanPause reports whether pause is meaningful.
func (p Player) CanPause() bool { return p.HasFile() && p.Playing }

// CanStop reports whether stop is meaningful.
func (p Player) CanStop() bool { return p.HasFile() }

// Clamp01 bounds v to [0, 1].
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
