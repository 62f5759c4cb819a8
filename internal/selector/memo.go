package selector

import (
	"reflect"
	"sync"

	"github.com/google/uuid"

	"github.com/five82/statebox/internal/state"
)

// Memo is a single-slot cache owned by one call site.
type Memo[S, R any] struct {
	mu      sync.Mutex
	valid   bool
	sel     Selector[S, R]
	storeID uuid.UUID
	version uint64
	result  R
	evals   int
}

// Resolve returns sel applied to snap, reusing the cached result when both
// the selector and the snapshot are the ones seen last. Failed evaluations
// leave the slot as it was.
func (m *Memo[S, R]) Resolve(sel Selector[S, R], snap state.Snapshot[S]) (R, error) {
	if _, ok := sel.(direct); ok {
		return sel.Select(snap.State)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.version == snap.Version && m.storeID == snap.StoreID && sameSelector(m.sel, sel) {
		return m.result, nil
	}

	m.evals++
	out, err := sel.Select(snap.State)
	if err != nil {
		return out, err
	}
	m.valid = true
	m.sel = sel
	m.storeID = snap.StoreID
	m.version = snap.Version
	m.result = out
	return out, nil
}

// Evaluations returns how many times Resolve invoked a memoizable selector.
func (m *Memo[S, R]) Evaluations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evals
}

// Invalidate empties the slot.
func (m *Memo[S, R]) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero R
	m.valid = false
	m.sel = nil
	m.result = zero
}

func sameSelector[S, R any](a, b Selector[S, R]) bool {
	if a == nil || b == nil {
		return false
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !ta.Comparable() {
		return false
	}
	return a == b
}
