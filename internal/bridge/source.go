package bridge

import (
	"sync"

	"github.com/five82/statebox/internal/selector"
	"github.com/five82/statebox/internal/state"
)

// Source exposes one selection of a store to a host runtime.
type Source[S, R any] struct {
	store *state.Store[S]

	mu   sync.Mutex
	sel  selector.Selector[S, R]
	memo selector.Memo[S, R]
}

// NewSource selects sel out of store. Each Source owns its own memo slot.
func NewSource[S, R any](store *state.Store[S], sel selector.Selector[S, R]) *Source[S, R] {
	return &Source[S, R]{store: store, sel: sel}
}

// Subscribe registers cb for every store broadcast.
func (s *Source[S, R]) Subscribe(cb func()) (unsubscribe func()) {
	return s.store.Subscribe(func(S) { cb() })
}

// GetSnapshot evaluates the current selector against the current state.
func (s *Source[S, R]) GetSnapshot() (R, error) {
	return s.memo.Resolve(s.Selector(), s.store.Snapshot())
}

// Selector returns the active selector.
func (s *Source[S, R]) Selector() selector.Selector[S, R] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sel
}

// SetSelector switches the selection. The next GetSnapshot uses sel.
func (s *Source[S, R]) SetSelector(sel selector.Selector[S, R]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sel = sel
}

// Store returns the underlying store.
func (s *Source[S, R]) Store() *state.Store[S] {
	return s.store
}

// Evaluations reports how often the memoized selector actually ran.
func (s *Source[S, R]) Evaluations() int {
	return s.memo.Evaluations()
}
