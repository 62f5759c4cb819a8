package state

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/five82/statebox/internal/observe"
)

// ErrUpdateRejected wraps the error returned by a failing updater.
var ErrUpdateRejected = errors.New("state: update rejected")

// Snapshot is one installed state value plus the metadata that identifies it.
type Snapshot[S any] struct {
	State     S
	Version   uint64
	StoreID   uuid.UUID
	UpdatedAt time.Time
}

// Subscriber is invoked with the newly installed state after every replacement.
type Subscriber[S any] func(S)

type subscription[S any] struct {
	fn     Subscriber[S]
	active atomic.Bool
	seen   atomic.Uint64
}

// advance records version as delivered. It reports false when the
// subscription has already been shown this version or a newer one.
func (sub *subscription[S]) advance(version uint64) bool {
	for {
		seen := sub.seen.Load()
		if version <= seen {
			return false
		}
		if sub.seen.CompareAndSwap(seen, version) {
			return true
		}
	}
}

// Store holds one state value that is only ever replaced as a whole, and
// broadcasts each replacement to its subscribers.
type Store[S any] struct {
	id       uuid.UUID
	name     string
	observer observe.Observer
	clock    func() time.Time

	initOnce sync.Once
	produce  func() S
	initial  S
	current  atomic.Pointer[Snapshot[S]]

	mu   sync.Mutex
	subs []*subscription[S]
}

// New creates a store holding initial. Reset restores exactly this value.
func New[S any](initial S, opts ...Option) *Store[S] {
	s := newStore[S](opts)
	s.initial = initial
	s.init()
	return s
}

// NewLazy creates a store whose initial value is produced on first use.
// produce runs exactly once.
func NewLazy[S any](produce func() S, opts ...Option) *Store[S] {
	s := newStore[S](opts)
	s.produce = produce
	return s
}

func newStore[S any](opts []Option) *Store[S] {
	o := buildOptions(opts)
	return &Store[S]{
		id:       uuid.New(),
		name:     o.name,
		observer: o.observer,
		clock:    o.clock,
	}
}

func (s *Store[S]) init() {
	s.initOnce.Do(func() {
		if s.id == uuid.Nil {
			s.id = uuid.New()
		}
		if s.observer == nil {
			s.observer = observe.NoOpObserver{}
		}
		if s.produce != nil {
			s.initial = s.produce()
			s.produce = nil
		}
		s.current.Store(&Snapshot[S]{
			State:     s.initial,
			Version:   1,
			StoreID:   s.id,
			UpdatedAt: s.now(),
		})
	})
}

func (s *Store[S]) load() *Snapshot[S] {
	s.init()
	return s.current.Load()
}

// ID returns the store's identity.
func (s *Store[S]) ID() uuid.UUID {
	s.init()
	return s.id
}

// GetState returns the current state without copying it.
func (s *Store[S]) GetState() S {
	return s.load().State
}

// Snapshot returns the current state together with its version.
func (s *Store[S]) Snapshot() Snapshot[S] {
	return *s.load()
}

// SetState replaces the state with updater(current) and broadcasts it.
// A panicking updater leaves the state untouched and nothing is broadcast.
func (s *Store[S]) SetState(updater func(S) S) {
	_ = s.Update(func(prev S) (S, error) {
		return updater(prev), nil
	})
}

// Update is SetState for updaters that can fail. When updater returns an
// error the state is untouched, nothing is broadcast and the error is
// returned wrapped in ErrUpdateRejected.
//
// Writers racing from several goroutines are resolved by retrying updater
// against the winner's state, so updater must be pure.
func (s *Store[S]) Update(updater func(S) (S, error)) error {
	for {
		prev := s.load()
		next, err := updater(prev.State)
		if err != nil {
			s.emit(observe.EventStoreUpdateFail, observe.LevelWarning, map[string]any{
				"version": prev.Version,
				"error":   err.Error(),
			})
			return fmt.Errorf("%w: %w", ErrUpdateRejected, err)
		}
		if s.install(prev, next, observe.EventStoreSet) {
			return nil
		}
	}
}

// Reset reinstalls the initial value and broadcasts it. Subscribers are kept.
func (s *Store[S]) Reset() {
	for {
		prev := s.load()
		if s.install(prev, s.initial, observe.EventStoreReset) {
			return
		}
	}
}

func (s *Store[S]) install(prev *Snapshot[S], next S, event observe.EventType) bool {
	snap := &Snapshot[S]{
		State:     next,
		Version:   prev.Version + 1,
		StoreID:   s.id,
		UpdatedAt: s.now(),
	}
	if !s.current.CompareAndSwap(prev, snap) {
		return false
	}
	s.emit(event, observe.LevelVerbose, map[string]any{
		"version":     snap.Version,
		"subscribers": s.Subscribers(),
	})
	s.broadcast(snap)
	return true
}

// broadcast notifies the subscribers registered when it starts. A
// subscriber removed mid-broadcast is skipped if not yet visited.
func (s *Store[S]) broadcast(snap *Snapshot[S]) {
	s.mu.Lock()
	subs := make([]*subscription[S], len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		if !sub.advance(snap.Version) {
			// A reentrant or concurrent write already showed this subscriber
			// something newer. It still gets called once for this write, with
			// the latest state.
			latest := s.current.Load()
			sub.advance(latest.Version)
			sub.fn(latest.State)
			continue
		}
		sub.fn(snap.State)
	}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is a no-op.
func (s *Store[S]) Subscribe(fn Subscriber[S]) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	sub := &subscription[S]{fn: fn}
	sub.active.Store(true)
	sub.seen.Store(s.load().Version)

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	count := len(s.subs)
	s.mu.Unlock()

	s.emit(observe.EventStoreSubscribe, observe.LevelVerbose, map[string]any{"subscribers": count})

	return func() {
		if !sub.active.CompareAndSwap(true, false) {
			return
		}
		s.mu.Lock()
		kept := make([]*subscription[S], 0, len(s.subs))
		for _, entry := range s.subs {
			if entry != sub {
				kept = append(kept, entry)
			}
		}
		s.subs = kept
		count := len(s.subs)
		s.mu.Unlock()

		s.emit(observe.EventStoreUnsubscribe, observe.LevelVerbose, map[string]any{"subscribers": count})
	}
}

// ClearSubscribers drops every subscriber without touching the state.
func (s *Store[S]) ClearSubscribers() {
	s.mu.Lock()
	dropped := len(s.subs)
	for _, sub := range s.subs {
		sub.active.Store(false)
	}
	s.subs = nil
	s.mu.Unlock()

	s.emit(observe.EventStoreClear, observe.LevelInfo, map[string]any{"dropped": dropped})
}

// Subscribers returns the number of registered subscribers.
func (s *Store[S]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

func (s *Store[S]) now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now()
}

func (s *Store[S]) emit(typ observe.EventType, level observe.Level, data map[string]any) {
	s.init()
	source := s.name
	if source == "" {
		source = s.id.String()
	}
	s.observer.OnEvent(context.Background(), observe.Event{
		Type:      typ,
		Level:     level,
		Timestamp: s.now(),
		Source:    source,
		Data:      data,
	})
}
