package selector

import (
	"errors"
	"fmt"
	"sync"
)

// ErrResultType reports a selector result that does not have the requested type.
var ErrResultType = errors.New("selector: unexpected result type")

// Selector derives a slice R from state S.
type Selector[S, R any] interface {
	Select(state S) (R, error)
}

// direct marks selectors whose result identity already tracks the state,
// so caching them buys nothing.
type direct interface {
	direct()
}

// Key selects one entry of map-shaped state.
type Key[K comparable, V any] struct {
	key K
}

// ByKey selects state[key]. A missing key yields the zero V.
func ByKey[K comparable, V any](key K) *Key[K, V] {
	return &Key[K, V]{key: key}
}

// Name returns the selected key.
func (k *Key[K, V]) Name() K {
	return k.key
}

func (k *Key[K, V]) Select(state map[K]V) (V, error) {
	return state[k.key], nil
}

func (k *Key[K, V]) direct() {}

func (k *Key[K, V]) String() string {
	return fmt.Sprintf("key(%v)", k.key)
}

// Func wraps a derivation function.
type Func[S, R any] struct {
	fn func(S) (R, error)
}

// ByFunc selects fn(state). fn must be pure.
func ByFunc[S, R any](fn func(S) R) *Func[S, R] {
	return &Func[S, R]{fn: func(state S) (R, error) {
		return fn(state), nil
	}}
}

// ByFallible selects fn(state) for derivations that can fail.
func ByFallible[S, R any](fn func(S) (R, error)) *Func[S, R] {
	return &Func[S, R]{fn: fn}
}

func (f *Func[S, R]) Select(state S) (R, error) {
	return f.fn(state)
}

// Composed reruns derive only when the input slice changes by Same. The
// cache lives on the selector value, not in a Memo, so call sites that
// evaluate against different states must each build their own Composed;
// sharing one makes them evict each other's cached result.
type Composed[S, In, R any] struct {
	input  Selector[S, In]
	derive func(In) R

	mu     sync.Mutex
	has    bool
	lastIn In
	last   R
}

// Compose builds a selector that feeds input's slice through derive. Call it
// once per call site.
func Compose[S, In, R any](input Selector[S, In], derive func(In) R) *Composed[S, In, R] {
	return &Composed[S, In, R]{input: input, derive: derive}
}

func (c *Composed[S, In, R]) Select(state S) (R, error) {
	in, err := c.input.Select(state)
	if err != nil {
		var zero R
		return zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.has && Same(c.lastIn, in) {
		return c.last, nil
	}
	out := c.derive(in)
	c.lastIn, c.last, c.has = in, out, true
	return out, nil
}
