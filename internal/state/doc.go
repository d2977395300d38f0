// Package state holds the local mirror of the remote player and the merge
// rules that keep it in step with polled snapshots.
//
// # Overview
//
// The player's true state lives on the server. The remote keeps a local copy
// that user commands change immediately and that every successful poll
// corrects. This package owns that copy and the rules for merging, but does
// no I/O itself.
//
// # Core Types
//
// Player:
//   - Current file, playing/looping flags, time, total, volume, brightness
//   - Created by NewPlayer with volume and brightness at 1.0
//   - Time may exceed the total under lag; only DisplayTime clamps
//
// Tracker:
//   - One flag per draggable control (progress, volume, brightness)
//   - StopPending: hold time at zero until the player reports zero
//   - IgnoreNextTimeUpdate: skip the time of exactly one snapshot
//
// Playlist:
//   - HasPlaylist, ordered item names, IsFinished
//   - Items are fetched once when a playlist appears, not on every poll
//
// Store:
//   - Goroutine-safe holder of the latest Snapshot for readers that do not
//     own the state (the headless watch loop and its printer)
//
// # Merge Rules
//
// Reconcile is a pure function of the previous state, the tracker and one
// snapshot:
//
//	currentTimeSec  progress active    → unchanged
//	                stopPending        → unchanged until snapshot time is 0
//	                ignoreNextTime     → unchanged once, flag cleared
//	                otherwise          → snapshot time
//	totalTimeSec    snapshot length
//	playing/looping snapshot
//	currentFile     snapshot
//	volume          unchanged while dragged, else gain (default 1.0)
//	brightness      unchanged while dragged, else brightness (default 1.0)
//
// ReconcilePlaylist clears the model when the snapshot has no playlist and
// asks for an item fetch on the no-playlist to playlist edge.
//
// # Navigation
//
// PreviousIndex and NextIndex locate the current file by string equality and
// never wrap around.
//
// # Concurrency Model
//
// Player, Tracker and Playlist are plain values with no locking. They must be
// mutated by a single owner (the UI update loop or the remote loop). Store is
// the only type here that is safe for concurrent use; it uses a readers-writer
// lock and returns copies.
package state
