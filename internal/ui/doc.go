// Package ui is the Bubble Tea front end for a statebox store.
//
// Each pane binds one selection of the store through a bridge.Binding:
//
//   - Counter: the count key
//   - History: the history key
//   - Active todos: a composed selector over todos
//   - Parity: the expression $env["count"] % 2 == 0
//   - Focus: a key selector switched at runtime with tab
//   - Ticks: the key written by the background ticker
//
// Every write happens inside Update on the program goroutine, ticker writes
// included (they arrive as TickMsg). A pane's refresh counter only moves
// when its own slice changed, so slice isolation is visible on screen.
//
// # Usage
//
//	err := ui.Run(ctx, ui.Options{
//		Store:     store,
//		ThemeName: prefs.Theme,
//		Focus:     prefs.Focus,
//		Ticks:     ticks,
//	})
package ui
