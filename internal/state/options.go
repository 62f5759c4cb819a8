package state

import (
	"time"

	"github.com/five82/statebox/internal/observe"
)

// Option configures a Store at construction time.
type Option func(*options)

type options struct {
	name     string
	observer observe.Observer
	clock    func() time.Time
}

// WithName labels the store in emitted events. Defaults to the store ID.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithObserver routes store lifecycle events to obs.
func WithObserver(obs observe.Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithClock overrides the timestamp source used for Snapshot.UpdatedAt.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

func buildOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
