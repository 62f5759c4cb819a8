// Package scope binds one store to each logical subtree of an application.
// The ambient lookup is context.Context: Provide marks a subtree, and every
// consumer below it resolves the same lazily created store.
package scope

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/five82/statebox/internal/bridge"
	"github.com/five82/statebox/internal/observe"
	"github.com/five82/statebox/internal/selector"
	"github.com/five82/statebox/internal/state"
)

// ErrNoProvider is returned when no ancestor context was provided a store.
var ErrNoProvider = errors.New("scope: no store provided for this context")

// Factory creates stores for the scopes it provides.
type Factory[S any] struct {
	key      *ctxKey
	produce  func() S
	opts     []state.Option
	observer observe.Observer
}

type ctxKey struct{ name string }

type holder[S any] struct {
	once  sync.Once
	store *state.Store[S]
}

// New returns a factory whose stores start from produce(). produce runs once
// per provided scope, on the first lookup in that scope.
func New[S any](name string, produce func() S, opts ...state.Option) *Factory[S] {
	return &Factory[S]{
		key:      &ctxKey{name: name},
		produce:  produce,
		opts:     opts,
		observer: observe.NoOpObserver{},
	}
}

// WithObserver reports scope.create events to obs. A nil obs restores the
// no-op default.
func (f *Factory[S]) WithObserver(obs observe.Observer) *Factory[S] {
	if obs == nil {
		obs = observe.NoOpObserver{}
	}
	f.observer = obs
	return f
}

// Provide returns a child context carrying a new, not yet created store.
func (f *Factory[S]) Provide(ctx context.Context) context.Context {
	return context.WithValue(ctx, f.key, &holder[S]{})
}

// ProvideStore attaches an existing store to ctx.
func (f *Factory[S]) ProvideStore(ctx context.Context, store *state.Store[S]) context.Context {
	h := &holder[S]{store: store}
	h.once.Do(func() {})
	return context.WithValue(ctx, f.key, h)
}

// UseStore returns the store of the nearest provided scope.
func (f *Factory[S]) UseStore(ctx context.Context) (*state.Store[S], error) {
	h, ok := ctx.Value(f.key).(*holder[S])
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrNoProvider, f.key.name)
	}
	h.once.Do(func() {
		h.store = state.NewLazy(f.produce, f.opts...)
		f.observer.OnEvent(ctx, observe.Event{
			Type:   observe.EventScopeCreate,
			Level:  observe.LevelInfo,
			Source: f.key.name,
			Data:   map[string]any{"store": h.store.ID().String()},
		})
	})
	return h.store, nil
}

// SetState writes to the store of the nearest provided scope.
func (f *Factory[S]) SetState(ctx context.Context, updater func(S) S) error {
	store, err := f.UseStore(ctx)
	if err != nil {
		return err
	}
	store.SetState(updater)
	return nil
}

// GetState reads the store of the nearest provided scope.
func (f *Factory[S]) GetState(ctx context.Context) (S, error) {
	store, err := f.UseStore(ctx)
	if err != nil {
		var zero S
		return zero, err
	}
	return store.GetState(), nil
}

// Select returns a snapshot source for sel in the nearest provided scope.
func Select[S, R any](ctx context.Context, f *Factory[S], sel selector.Selector[S, R]) (*bridge.Source[S, R], error) {
	store, err := f.UseStore(ctx)
	if err != nil {
		return nil, err
	}
	return bridge.NewSource(store, sel), nil
}
