// Package bridge connects a state.Store to consumers that refresh only when
// their own slice changes.
//
// # Overview
//
// The store broadcasts every write to every subscriber; it does no
// filtering. Filtering happens here, in two layers:
//
//	Store.SetState ──broadcast──→ Source.Subscribe callback
//	                                 │
//	                                 ↓
//	                          Binding.refresh
//	                                 │ Source.GetSnapshot (memoized selector)
//	                                 ↓
//	                          Equal(prev, next)? ── yes ──→ nothing
//	                                 │ no
//	                                 ↓
//	                          onChange(next)
//
// Source is the (Subscribe, GetSnapshot) pair a host runtime polls. Binding is
// the host-side half: it keeps the last slice value and calls the consumer
// only when the comparison says the slice differs.
//
// # GetSnapshot Contract
//
//   - Pure and synchronous; no side effects besides filling the memo slot
//   - Reads one atomically installed store snapshot, so it can never observe
//     a half-applied write
//   - Returns the cached result for an unchanged (selector, snapshot) pair
//
// # Why Unrelated Writes Do Not Refresh
//
// Every write replaces the whole state, so every binding re-evaluates on
// every broadcast. A binding stays quiet only because its slice compares
// equal to the previous one. With the default comparison (selector.Same) that
// requires writers to use structural sharing: keep untouched slices, maps
// and pointers as they were. A writer that rebuilds an unrelated slice will
// refresh every consumer of that slice.
//
// Derivation selectors produce a fresh value on each run. They stay quiet
// only if they return comparable values (bool, int, string) or reuse
// references from the state; selector.Compose covers derived collections.
//
// # Errors
//
// GetSnapshot returns selector errors and lets selector panics through.
// Bindings record both on Err and pass them to the OnError handler; a failing
// binding keeps its last good value and never stops the broadcast for other
// consumers.
//
// # Batching
//
// Bindings notify synchronously. Hosts that coalesce refreshes (the
// bubbletea UI renders once per message no matter how many bindings fired)
// need nothing from this package.
package bridge
