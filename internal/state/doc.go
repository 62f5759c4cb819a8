// Package state provides the observable state container behind statebox.
//
// # Overview
//
// A Store owns exactly one state value. The value is never edited in place:
// every write produces a new value which is swapped in as a single pointer
// replacement, and the swap is followed by a synchronous broadcast to every
// subscriber. Readers therefore always see either the previous or the next
// state, never a mixture.
//
//	Writer:                          Subscribers:
//	┌──────────────────┐            ┌──────────────────┐
//	│ SetState(fn)     │            │                  │
//	│   next := fn(s)  │            │                  │
//	│   swap snapshot  │───────────→│ fn(next) in      │
//	│   broadcast      │ (same call)│ registration     │
//	└──────────────────┘            │ order            │
//	                                └──────────────────┘
//
// # Core Types
//
// Store[S]:
//   - Holds the current Snapshot behind an atomic pointer
//   - Retains the initial value for Reset
//   - Keeps subscribers in registration order
//
// Snapshot[S]:
//   - The installed state plus a Version that increments on every accepted
//     write, the owning store's ID and the install time
//   - Version and StoreID together identify "the same state" for memoization,
//     which Go cannot do by reference for an arbitrary S
//
// # Update Semantics
//
//	store.SetState(func(s State) State { s.Count++; return s })
//	→ updater runs against the current state
//	→ result is installed as version n+1
//	→ every subscriber registered before the broadcast is called, in order
//
//	err := store.Update(func(s State) (State, error) { return s, errBoom })
//	→ state unchanged, no broadcast
//	→ errors.Is(err, ErrUpdateRejected) and errors.Is(err, errBoom)
//
// A panicking updater behaves like a failing one: the swap never happens and
// the panic reaches the caller.
//
// State must be updated with structural sharing. Untouched parts of the
// value keep their previous identity; that is what lets selectors and
// bindings detect that an unrelated slice did not change.
//
// # Broadcast Rules
//
//   - Subscribers added during a broadcast are not called in that round
//   - Subscribers removed during a broadcast are skipped if not yet visited
//   - A subscriber is never shown a version older than one it has already
//     seen, including when another subscriber writes reentrantly
//   - Unsubscribing twice is a no-op
//
// # Reset
//
// Reset reinstalls the value captured at construction (or produced by the
// NewLazy producer) and broadcasts it. Subscribers are kept. Dropping all
// subscribers is the separate ClearSubscribers operation.
//
// # Concurrency Model
//
// Reads (GetState, Snapshot) are safe from any goroutine. Writes are
// resolved with compare-and-swap; a writer that loses the race reruns its
// updater against the winner's state. Ordering across concurrent writers is
// only as strong as the per-subscriber version check above, so applications
// that need every intermediate state delivered should write from one
// goroutine. The bubbletea UI does exactly that by applying writes in
// Update.
//
// # Usage Example
//
//	store := state.New(map[string]any{"count": int64(10)})
//	unsubscribe := store.Subscribe(func(s map[string]any) {
//		fmt.Println("count is", s["count"])
//	})
//	defer unsubscribe()
//
//	store.SetState(func(prev map[string]any) map[string]any {
//		next := maps.Clone(prev)
//		next["count"] = prev["count"].(int64) + 1
//		return next
//	})
//
// # Testing Considerations
//
// The zero Store is ready to use and holds the zero value of S:
//
//	var store state.Store[int]
//	store.SetState(func(n int) int { return n + 1 })
package state
