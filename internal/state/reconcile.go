package state

import "github.com/five82/lsfremote/internal/lumasonic"

// Reconcile merges a snapshot into prev. The snapshot is authoritative except
// where the tracker says the user or a recent command owns the field. It has
// no side effects; the returned tracker carries any flags it consumed.
func Reconcile(prev Player, t Tracker, snap lumasonic.PlayerState) (Player, Tracker) {
	next := prev

	switch {
	case t.Active(ControlProgress):
		// local drag position wins
	case t.StopPending:
		if snap.TimeSec == 0 {
			next.CurrentTimeSec = 0
			t.StopPending = false
		}
	case t.IgnoreNextTimeUpdate:
		t.IgnoreNextTimeUpdate = false
	default:
		next.CurrentTimeSec = snap.TimeSec
	}

	next.TotalTimeSec = snap.LengthSec
	next.Playing = snap.Playing
	next.Looping = snap.Looping
	next.CurrentFile = snap.FileName

	if !t.Active(ControlVolume) {
		next.Volume = snap.GainOrDefault()
	}
	if !t.Active(ControlBrightness) {
		next.Brightness = snap.BrightnessOrDefault()
	}
	return next, t
}

// ReconcilePlaylist applies the playlist part of a snapshot. fetch is true
// when a playlist has just appeared and its items should be requested.
func ReconcilePlaylist(prev Playlist, snap lumasonic.PlayerState) (next Playlist, fetch bool) {
	if !snap.HasPlaylist() {
		return Playlist{}, false
	}
	next = prev
	next.IsFinished = snap.Playlist.IsFinished
	if !prev.HasPlaylist {
		next.HasPlaylist = true
		next.Items = nil
		return next, true
	}
	return next, false
}
