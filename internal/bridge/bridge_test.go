package bridge

import (
	"errors"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/statebox/internal/selector"
	"github.com/five82/statebox/internal/state"
)

type doc = map[string]any

func incrementCount(prev doc) doc {
	next := maps.Clone(prev)
	next["count"] = prev["count"].(int) + 1
	return next
}

func pushHistory(prev doc) doc {
	next := maps.Clone(prev)
	history := prev["history"].([]string)
	next["history"] = append(slices.Clip(history), "a")
	return next
}

func TestSource_GetSnapshotFollowsStore(t *testing.T) {
	store := state.New(doc{"count": 10})
	src := NewSource(store, selector.ByKey[string, any]("count"))

	first, err := src.GetSnapshot()
	require.NoError(t, err)
	again, err := src.GetSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 10, first)
	assert.Equal(t, first, again)

	store.SetState(incrementCount)
	got, err := src.GetSnapshot()
	require.NoError(t, err)
	assert.Equal(t, 11, got)
}

func TestSource_SubscribeDelegatesToStore(t *testing.T) {
	store := state.New(doc{"count": 0})
	src := NewSource(store, selector.ByKey[string, any]("count"))

	calls := 0
	unsubscribe := src.Subscribe(func() { calls++ })
	store.SetState(incrementCount)
	unsubscribe()
	unsubscribe()
	store.SetState(incrementCount)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, store.Subscribers())
	assert.Same(t, store, src.Store())
}

func TestBinding_SliceIsolation(t *testing.T) {
	store := state.New(doc{"count": 10, "history": []string{"a"}})

	counter, err := Bind(NewSource(store, selector.ByKey[string, any]("count")), nil)
	require.NoError(t, err)
	history, err := Bind(NewSource(store, selector.ByKey[string, any]("history")), nil)
	require.NoError(t, err)

	store.SetState(incrementCount)
	store.SetState(incrementCount)
	assert.Equal(t, 2, counter.Refreshes())
	assert.Equal(t, 0, history.Refreshes())
	assert.Equal(t, 12, counter.Value())

	store.SetState(pushHistory)
	store.SetState(pushHistory)
	assert.Equal(t, 2, counter.Refreshes())
	assert.Equal(t, 2, history.Refreshes())
	assert.Equal(t, []string{"a", "a", "a"}, history.Value())
}

func TestBinding_DerivedSelectorRefreshesOnlyOnValueChange(t *testing.T) {
	store := state.New(doc{"count": 10})
	isEven := selector.ByFunc(func(s doc) bool { return s["count"].(int)%2 == 0 })

	var seen []bool
	b, err := Bind(NewSource(store, isEven), func(v bool) { seen = append(seen, v) })
	require.NoError(t, err)
	assert.True(t, b.Value())

	store.SetState(incrementCount)
	store.SetState(func(prev doc) doc {
		next := maps.Clone(prev)
		next["count"] = prev["count"].(int) + 2
		return next
	})
	store.SetState(incrementCount)

	assert.Equal(t, []bool{false, true}, seen)
}

func TestBinding_DynamicSelectorSwitch(t *testing.T) {
	store := state.New(doc{"count": 10, "history": []string{"a"}})
	count := selector.ByKey[string, any]("count")
	history := selector.ByKey[string, any]("history")

	var seen []any
	b, err := Bind(NewSource(store, count), func(v any) { seen = append(seen, v) })
	require.NoError(t, err)

	b.SetSelector(history)
	require.Len(t, seen, 1)
	assert.Equal(t, []string{"a"}, seen[0])

	store.SetState(incrementCount)
	assert.Len(t, seen, 1, "count updates must not refresh after switching away")

	store.SetState(pushHistory)
	require.Len(t, seen, 2)
	assert.Equal(t, []string{"a", "a"}, b.Value())
}

func TestBinding_UnsubscribeFromAnotherSubscriber(t *testing.T) {
	store := state.New(doc{"count": 0})
	src := NewSource(store, selector.ByKey[string, any]("count"))

	var victim *Binding[doc, any]
	store.Subscribe(func(doc) { victim.Close() })
	victim, err := Bind(src, nil)
	require.NoError(t, err)

	store.SetState(incrementCount)
	store.SetState(incrementCount)

	assert.Equal(t, 0, victim.Refreshes())
	assert.Equal(t, 0, victim.Value())
}

func TestBinding_ErrorsKeepLastValue(t *testing.T) {
	store := state.New(doc{"count": 1})
	boom := errors.New("odd count")
	sel := selector.ByFallible(func(s doc) (int, error) {
		n := s["count"].(int)
		if n%2 == 1 && n > 1 {
			return 0, boom
		}
		return n, nil
	})

	var reported []error
	b, err := Bind(NewSource(store, sel), nil, OnError(func(err error) { reported = append(reported, err) }))
	require.NoError(t, err)

	store.SetState(incrementCount)
	assert.Equal(t, 2, b.Value())

	store.SetState(incrementCount)
	assert.Equal(t, 2, b.Value())
	require.ErrorIs(t, b.Err(), boom)
	require.Len(t, reported, 1)

	store.SetState(incrementCount)
	assert.NoError(t, b.Err())
	assert.Equal(t, 4, b.Value())
}

func TestBinding_SelectorPanicDoesNotStopBroadcast(t *testing.T) {
	store := state.New(doc{"count": 0})
	exploding := selector.ByFunc(func(s doc) int {
		if s["count"].(int) > 0 {
			panic("kaboom")
		}
		return 0
	})

	bad, err := Bind(NewSource(store, exploding), nil)
	require.NoError(t, err)
	good, err := Bind(NewSource(store, selector.ByKey[string, any]("count")), nil)
	require.NoError(t, err)

	assert.NotPanics(t, func() { store.SetState(incrementCount) })
	require.ErrorIs(t, bad.Err(), ErrSelectorPanic)
	assert.Equal(t, 1, good.Value())
}

func TestBind_InitialErrorUnsubscribes(t *testing.T) {
	store := state.New(doc{})
	sel := selector.ByFallible(func(doc) (int, error) { return 0, errors.New("nope") })

	_, err := Bind(NewSource(store, sel), nil)
	require.Error(t, err)
	assert.Equal(t, 0, store.Subscribers())
}

func TestBind_InitialPanicUnsubscribes(t *testing.T) {
	store := state.New(doc{})
	sel := selector.ByFunc(func(doc) int { panic("boom") })
	changes := 0

	var b *Binding[doc, int]
	var err error
	require.NotPanics(t, func() {
		b, err = Bind(NewSource(store, sel), func(int) { changes++ })
	})
	require.ErrorIs(t, err, ErrSelectorPanic)
	assert.Nil(t, b)
	assert.Equal(t, 0, store.Subscribers())

	store.SetState(func(prev doc) doc { return maps.Clone(prev) })
	assert.Equal(t, 0, changes)
}

func TestBinding_WithEqual(t *testing.T) {
	store := state.New(doc{"history": []string{"a"}})
	valueEqual := func(a, b any) bool { return slices.Equal(a.([]string), b.([]string)) }

	b, err := Bind(NewSource(store, selector.ByKey[string, any]("history")), nil, WithEqual(valueEqual))
	require.NoError(t, err)

	store.SetState(func(prev doc) doc {
		next := maps.Clone(prev)
		next["history"] = []string{"a"}
		return next
	})
	assert.Equal(t, 0, b.Refreshes())
}

func TestSource_NeverTears(t *testing.T) {
	type pair struct{ A, B int }
	store := state.New(pair{})
	src := NewSource(store, selector.ByFunc(func(p pair) pair { return p }))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			store.SetState(func(p pair) pair { return pair{A: p.A + 1, B: p.B + 1} })
		}
	}()
	for i := 0; i < 1000; i++ {
		p, err := src.GetSnapshot()
		require.NoError(t, err)
		require.Equal(t, p.A, p.B)
	}
	wg.Wait()
	assert.Equal(t, pair{A: 1000, B: 1000}, store.GetState())
}
