package bridge

import (
	"errors"
	"fmt"
	"sync"

	"github.com/five82/statebox/internal/selector"
)

// ErrSelectorPanic wraps a panic raised by a selector during a broadcast.
var ErrSelectorPanic = errors.New("bridge: selector panicked")

// Option configures a Binding.
type Option func(*config)

type config struct {
	equal   func(a, b any) bool
	onError func(error)
}

// WithEqual replaces selector.Same as the refresh comparison.
func WithEqual(equal func(a, b any) bool) Option {
	return func(c *config) {
		c.equal = equal
	}
}

// OnError receives selector failures raised while refreshing.
func OnError(fn func(error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// Binding tracks one consumer's slice and calls onChange when it differs.
type Binding[S, R any] struct {
	source   *Source[S, R]
	onChange func(R)
	cfg      config

	mu          sync.Mutex
	value       R
	err         error
	refreshes   int
	unsubscribe func()
}

// Bind subscribes to src and evaluates the initial slice. onChange is not
// called for the initial value; read it with Value.
func Bind[S, R any](src *Source[S, R], onChange func(R), opts ...Option) (*Binding[S, R], error) {
	cfg := config{equal: selector.Same}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	b := &Binding[S, R]{source: src, onChange: onChange, cfg: cfg}

	// Hold the lock so a concurrent broadcast compares against the initial value.
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unsubscribe = src.Subscribe(b.refresh)
	value, err := b.evaluate()
	if err != nil {
		b.unsubscribe()
		return nil, fmt.Errorf("bridge: initial snapshot: %w", err)
	}
	b.value = value
	return b, nil
}

// Value returns the last slice handed to the consumer.
func (b *Binding[S, R]) Value() R {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.value
}

// Err returns the error from the most recent evaluation, if any.
func (b *Binding[S, R]) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Refreshes counts onChange notifications.
func (b *Binding[S, R]) Refreshes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.refreshes
}

// Source returns the bound source.
func (b *Binding[S, R]) Source() *Source[S, R] {
	return b.source
}

// SetSelector switches the consumer to sel and evaluates it right away.
// Later writes to the previously selected slice no longer refresh it.
func (b *Binding[S, R]) SetSelector(sel selector.Selector[S, R]) {
	b.source.SetSelector(sel)
	b.refresh()
}

// Close unsubscribes. Calling it again, or on a nil Binding, is a no-op.
func (b *Binding[S, R]) Close() {
	if b == nil {
		return
	}
	b.unsubscribe()
}

func (b *Binding[S, R]) refresh() {
	next, err := b.evaluate()

	b.mu.Lock()
	if err != nil {
		b.err = err
		handler := b.cfg.onError
		b.mu.Unlock()
		if handler != nil {
			handler(err)
		}
		return
	}
	b.err = nil
	if b.cfg.equal(any(b.value), any(next)) {
		b.mu.Unlock()
		return
	}
	b.value = next
	b.refreshes++
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(next)
	}
}

func (b *Binding[S, R]) evaluate() (value R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSelectorPanic, r)
		}
	}()
	return b.source.GetSnapshot()
}
