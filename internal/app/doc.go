// Package app is the composition root for statebox.
//
// # Overview
//
// Run wires configuration, logging, the seed document, a scoped store and the
// Bubble Tea UI together. RunTrace uses the same setup but replaces the UI
// with a scripted series of writes whose effect on each binding is printed.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()       Read ~/.config/statebox/config.toml
//	       ├─────> openLogger()        slog text handler on the log file
//	       ├─────> seed.Load()         Initial state document
//	       ├─────> scope.Provide()     Lazy store for the app scope
//	       ├─────> StartTicker()       Optional periodic writes
//	       └─────> ui.Run()            Start TUI (blocks)
//
// # Ticker
//
// The ticker goroutine never touches the store. It hands times to the UI,
// which applies them as writes inside Update, so every write happens on the
// program goroutine. Ticks arriving while the UI is busy are dropped.
//
// # Error Handling
//
// Fatal errors (returned from Run and RunTrace):
//   - Configuration file unreadable or invalid
//   - Log file cannot be created
//   - Seed document missing, unparsable or of the wrong shape
//
// Preferences never fail startup; unreadable preferences fall back to
// defaults.
package app
