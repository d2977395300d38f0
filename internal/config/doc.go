// Package config loads the remote's TOML configuration.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/lsfremote/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// Command-line flags are applied by the caller after Load.
//
// # Default Values
//
//   - Player: localhost:8080, API prefix /api/v1
//   - Poll interval: 500ms
//   - Request timeout: 5s (0 disables)
//   - Connection notification debounce: 2s
//   - Poll failure log interval: 10s
//   - Notification lifetime: 5s
//   - Log file: ~/.local/state/lsfremote/lsfremote.log
//   - Log level: info
//
// # TOML Format
//
//	host = "192.168.1.40"
//	port = 8080
//	api_prefix = "/api/v1"
//	poll_interval_ms = 500
//	request_timeout_ms = 5000
//	notify_debounce_ms = 2000
//	poll_error_log_interval_ms = 10000
//	notification_ttl_ms = 5000
//	log_file = "~/.local/state/lsfremote/lsfremote.log"
//	log_level = "debug"
//
// Every field is optional. Tilde expansion is performed on log_file.
//
// # Error Handling
//
// Load returns an error only when the file exists but cannot be read, is not
// valid TOML ("parse config: ..."), or names an out-of-range port or unknown
// log level. A missing file is not an error.
package config
