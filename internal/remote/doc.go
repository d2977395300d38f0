// Package remote turns user intents into optimistic state changes and remote
// commands, and folds polled snapshots back into the local state.
//
// A Session is single-writer. Intent methods change the local state right
// away and return a *Command (nil when there is nothing to send). The owner
// runs the command wherever it likes and hands the Result back to Complete
// on the owning goroutine. Failed commands are never rolled back; the next
// poll corrects the state.
//
// Polling follows the same split: Poll returns a *PollCommand (nil while one
// is in flight), ApplyPoll reconciles its result and may ask for the
// playlist items with an *ItemsCommand.
//
// Loop is a ready-made owner for headless use. The TUI owns its session
// directly from the bubbletea update loop.
package remote
