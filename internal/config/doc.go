// Package config loads statebox runtime settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/statebox/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are empty, use defaults for those fields
//
// # Default Values
//
//   - Config file: ~/.config/statebox/config.toml
//   - Initial state: built in ({count = 10, history = ["a"], todos = []})
//   - Log file: ~/.local/state/statebox/statebox.log
//   - Log level: info
//   - Ticker: disabled
//
// # TOML Format
//
//	initial_state = "~/statebox/seed.yaml"
//	log_file = "~/.cache/statebox.log"
//	log_level = "debug"
//	tick_seconds = 2
//
// All fields are optional. Paths are trimmed and tilde-expanded.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors and negative tick_seconds. A missing file
// is not an error.
package config
