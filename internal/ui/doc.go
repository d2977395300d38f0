// Package ui provides the terminal remote for the Lumasonic File Player.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Its Model owns a remote.Session: key
// presses and mouse events become intents applied inside Update, the
// commands they return run as tea.Cmds, and their results come back as
// messages that are completed on the update loop. Poll ticks work the same
// way, so the session is only ever touched by one goroutine.
//
// # Layout
//
// The screen uses fixed rows (see layout.go) so mouse positions map to
// controls without re-rendering:
//
//   - header: address and connection state
//   - latest notification
//   - current file, or a banner while the player is unreachable
//   - progress bar with elapsed and total time, then transport state
//   - volume and brightness bars
//   - playlist, scrolled to keep the cursor visible
//   - footer: key hints or the load-file prompt
//
// # Drags
//
// Mouse presses on a bar begin a drag, motion updates it and a release
// anywhere ends every drag. Keyboard adjustments are drags too: ←/→ scrub
// the progress bar and the seek is sent on enter or after an idle second;
// volume and brightness steps are sent immediately and the drag is released
// after a short idle period.
//
// # Files
//
//   - model.go: Model, Options, Init/Update/View and Run
//   - input.go: key and mouse handling
//   - view.go: rendering
//   - layout.go: row constants and hit testing
//   - messages.go: messages and tea.Cmd constructors
//   - keys.go, help.go: bindings, footer hints and the help overlay
//   - theme.go, style_helpers.go: palettes and background-safe rendering
package ui
