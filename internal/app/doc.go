// Package app wires configuration, logging, the player client, the
// connection monitor and the remote session into the runnable modes of
// lsfremote.
//
// # Modes
//
//   - Run: the interactive TUI (internal/ui owns the session)
//   - Watch: headless; a remote.Loop owns the session and a printer reports
//     state changes read from a state.Store
//   - Exec: one poll, one intent, one command (CLI subcommands)
//   - Status: one poll, printed
//   - Logs: the tail of the log file, highlighted by internal/logtail
//   - Simulate: serve the in-memory player from internal/playersim
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> Settings()           config file + flag overrides
//	       ├─────> newLogger()          slog text handler on the log file
//	       ├─────> connection.New()     connectivity observer
//	       ├─────> lumasonic.NewClient() HTTP client feeding the observer
//	       ├─────> remote.NewSession()  local state + intents
//	       └─────> ui.Run()             Start TUI (blocks)
//
// # Error Handling
//
// Fatal errors (returned):
//   - Config file unreadable or invalid
//   - Log file cannot be opened
//   - Player unreachable for one-shot commands
//
// Recoverable errors (logged, polling continues):
//   - Any poll failure in Run or Watch
//   - Command failures, which also raise a notification
//
// # Logging
//
// Logs go to the configured log file because the TUI owns the terminal.
// Each component gets its own logger via logger.With("component", ...).
package app
