// Package selector maps a store's state to the slice a consumer cares about.
//
// Selectors are a tagged variant resolved once at the call site:
//
//   - ByKey(key): direct lookup in map-shaped state, never memoized
//   - ByFunc(fn) / ByFallible(fn): pure derivation functions
//   - ByExpr(expression): derivation written as an expr-lang expression
//   - Compose(input, derive): derive only reruns when the input slice changes
//
// A selector's identity is its pointer. Build selectors once and keep them;
// constructing a new one per evaluation defeats every cache below.
//
// Memo is the single-slot cache each call site owns. It remembers the last
// (selector, store, version) triple and its result, so repeated reads of an
// unchanged snapshot never rerun the derivation. Because every write bumps
// the version, a derivation runs once per broadcast; it must return the same
// value (by Same) when its inputs did not change if consumers are to skip
// refreshes.
package selector
