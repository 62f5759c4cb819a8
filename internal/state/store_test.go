package state

import (
	"errors"
	"maps"
	"reflect"
	"slices"
	"testing"
	"time"

	"github.com/five82/statebox/internal/observe"
)

type demoState = map[string]any

func bump(key string) func(demoState) demoState {
	return func(prev demoState) demoState {
		next := maps.Clone(prev)
		next[key] = prev[key].(int) + 1
		return next
	}
}

func TestStore_GetStateAndSetState(t *testing.T) {
	s := New(demoState{"count": 10})

	if got := s.GetState()["count"]; got != 10 {
		t.Fatalf("count = %v, want 10", got)
	}

	s.SetState(bump("count"))

	if got := s.GetState()["count"]; got != 11 {
		t.Fatalf("count = %v, want 11", got)
	}
	if v := s.Snapshot().Version; v != 2 {
		t.Fatalf("Version = %d, want 2", v)
	}
}

func TestStore_PanickingUpdaterLeavesStateUntouched(t *testing.T) {
	s := New(demoState{"count": 1})
	before := s.Snapshot()

	calls := 0
	s.Subscribe(func(demoState) { calls++ })

	func() {
		defer func() {
			if r := recover(); r == nil {
				t.Fatalf("expected updater panic to propagate")
			}
		}()
		s.SetState(func(demoState) demoState { panic("boom") })
	}()

	after := s.Snapshot()
	if after.Version != before.Version {
		t.Fatalf("Version = %d, want %d", after.Version, before.Version)
	}
	if !sameMap(after.State, before.State) {
		t.Fatalf("state replaced after failed update")
	}
	if calls != 0 {
		t.Fatalf("subscriber calls = %d, want 0", calls)
	}
}

func TestStore_UpdateErrorIsWrappedAndNotBroadcast(t *testing.T) {
	s := New(5)
	calls := 0
	s.Subscribe(func(int) { calls++ })

	boom := errors.New("boom")
	err := s.Update(func(n int) (int, error) { return n + 1, boom })

	if !errors.Is(err, ErrUpdateRejected) || !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want ErrUpdateRejected wrapping boom", err)
	}
	if got := s.GetState(); got != 5 {
		t.Fatalf("state = %d, want 5", got)
	}
	if calls != 0 {
		t.Fatalf("subscriber calls = %d, want 0", calls)
	}
}

func TestStore_BroadcastEveryState(t *testing.T) {
	s := New(0)
	var seen []int
	s.Subscribe(func(n int) { seen = append(seen, n) })

	for i := 0; i < 5; i++ {
		s.SetState(func(n int) int { return n + 1 })
	}

	if want := []int{1, 2, 3, 4, 5}; !slices.Equal(seen, want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
}

func TestStore_BroadcastInRegistrationOrder(t *testing.T) {
	s := New(0)
	var order []string
	s.Subscribe(func(int) { order = append(order, "a") })
	s.Subscribe(func(int) { order = append(order, "b") })
	s.Subscribe(func(int) { order = append(order, "c") })

	s.SetState(func(n int) int { return n + 1 })

	if want := []string{"a", "b", "c"}; !slices.Equal(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestStore_UnsubscribeIsIdempotent(t *testing.T) {
	s := New(0)
	calls := 0
	unsubscribe := s.Subscribe(func(int) { calls++ })

	unsubscribe()
	unsubscribe()

	s.SetState(func(n int) int { return n + 1 })
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
	if n := s.Subscribers(); n != 0 {
		t.Fatalf("Subscribers() = %d, want 0", n)
	}
}

func TestStore_UnsubscribeDuringBroadcastSkipsUnvisited(t *testing.T) {
	s := New(0)
	var order []string
	var unsubscribeB func()

	s.Subscribe(func(int) {
		order = append(order, "a")
		unsubscribeB()
	})
	unsubscribeB = s.Subscribe(func(int) { order = append(order, "b") })

	s.SetState(func(n int) int { return n + 1 })

	if want := []string{"a"}; !slices.Equal(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestStore_UnsubscribeVisitedSubscriberDuringBroadcast(t *testing.T) {
	s := New(0)
	var order []string
	var unsubscribeA func()

	unsubscribeA = s.Subscribe(func(int) { order = append(order, "a") })
	s.Subscribe(func(int) {
		order = append(order, "b")
		unsubscribeA()
	})

	s.SetState(func(n int) int { return n + 1 })
	s.SetState(func(n int) int { return n + 1 })

	if want := []string{"a", "b", "b"}; !slices.Equal(order, want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestStore_SubscribeDuringBroadcastWaitsForNextRound(t *testing.T) {
	s := New(0)
	var late []int
	subscribed := false

	s.Subscribe(func(int) {
		if subscribed {
			return
		}
		subscribed = true
		s.Subscribe(func(n int) { late = append(late, n) })
	})

	s.SetState(func(n int) int { return n + 1 })
	if len(late) != 0 {
		t.Fatalf("late subscriber called during the round it joined: %v", late)
	}

	s.SetState(func(n int) int { return n + 1 })
	if want := []int{2}; !slices.Equal(late, want) {
		t.Fatalf("late = %v, want %v", late, want)
	}
}

func TestStore_ReentrantWriteNeverShowsStaleState(t *testing.T) {
	s := New(0)
	var seenB []int

	s.Subscribe(func(n int) {
		if n == 1 {
			s.SetState(func(n int) int { return n + 10 })
		}
	})
	s.Subscribe(func(n int) { seenB = append(seenB, n) })

	s.SetState(func(n int) int { return n + 1 })

	// One call per write, and the outer write never delivers the stale 1.
	if want := []int{11, 11}; !slices.Equal(seenB, want) {
		t.Fatalf("seenB = %v, want %v", seenB, want)
	}
	if got := s.GetState(); got != 11 {
		t.Fatalf("state = %d, want 11", got)
	}
}

func TestStore_ResetRestoresInitialAndKeepsSubscribers(t *testing.T) {
	initial := demoState{"count": 10, "history": []string{"a"}}
	s := New(initial)

	calls := 0
	s.Subscribe(func(demoState) { calls++ })

	for i := 0; i < 3; i++ {
		s.SetState(bump("count"))
	}
	s.Reset()

	if !sameMap(s.GetState(), initial) {
		t.Fatalf("Reset did not restore the captured initial value")
	}
	if calls != 4 {
		t.Fatalf("calls = %d, want 4", calls)
	}
	if n := s.Subscribers(); n != 1 {
		t.Fatalf("Subscribers() = %d, want 1", n)
	}

	s.SetState(bump("count"))
	if calls != 5 {
		t.Fatalf("calls after reset = %d, want 5", calls)
	}
}

func TestStore_ResetWithoutSubscribers(t *testing.T) {
	s := New(3)
	s.SetState(func(n int) int { return n * 2 })
	s.Reset()
	if got := s.GetState(); got != 3 {
		t.Fatalf("state = %d, want 3", got)
	}
}

func TestStore_ClearSubscribers(t *testing.T) {
	s := New(0)
	calls := 0
	unsubscribe := s.Subscribe(func(int) { calls++ })
	s.Subscribe(func(int) { calls++ })

	s.ClearSubscribers()
	unsubscribe()
	s.SetState(func(n int) int { return n + 1 })

	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
	if got := s.GetState(); got != 1 {
		t.Fatalf("state = %d, want 1", got)
	}
}

func TestNewLazy_ProducerRunsOnce(t *testing.T) {
	produced := 0
	s := NewLazy(func() []string {
		produced++
		return []string{"a"}
	})

	if produced != 0 {
		t.Fatalf("producer ran before first use")
	}

	first := s.GetState()
	s.SetState(func(prev []string) []string { return append(slices.Clone(prev), "b") })
	s.Reset()
	again := s.GetState()

	if produced != 1 {
		t.Fatalf("produced = %d, want 1", produced)
	}
	if &first[0] != &again[0] {
		t.Fatalf("Reset should reinstall the produced value, not a recomputation")
	}
}

func TestStore_ZeroValueIsUsable(t *testing.T) {
	var s Store[int]
	s.SetState(func(n int) int { return n + 1 })
	if got := s.GetState(); got != 1 {
		t.Fatalf("state = %d, want 1", got)
	}
	if s.ID().String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("zero store should assign an ID on first use")
	}
}

func TestStore_DefaultsToNoOpObserver(t *testing.T) {
	var zero Store[int]
	zero.ClearSubscribers()
	if _, ok := zero.observer.(observe.NoOpObserver); !ok {
		t.Fatalf("zero store observer = %T, want observe.NoOpObserver", zero.observer)
	}

	s := New(0, WithObserver(nil))
	s.SetState(func(n int) int { return n + 1 })
	if _, ok := s.observer.(observe.NoOpObserver); !ok {
		t.Fatalf("observer = %T, want observe.NoOpObserver", s.observer)
	}
}

func TestStore_SnapshotMetadata(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New(1, WithClock(func() time.Time { return fixed }))

	s.SetState(func(n int) int { return n + 1 })
	snap := s.Snapshot()

	if snap.StoreID != s.ID() {
		t.Fatalf("StoreID = %s, want %s", snap.StoreID, s.ID())
	}
	if !snap.UpdatedAt.Equal(fixed) {
		t.Fatalf("UpdatedAt = %v, want %v", snap.UpdatedAt, fixed)
	}
	if other := New(1); other.ID() == s.ID() {
		t.Fatalf("stores should have distinct IDs")
	}
}

func TestStore_EmitsEvents(t *testing.T) {
	rec := &observe.Recorder{}
	s := New(0, WithObserver(rec), WithName("counter"))

	unsubscribe := s.Subscribe(func(int) {})
	s.SetState(func(n int) int { return n + 1 })
	_ = s.Update(func(n int) (int, error) { return n, errors.New("nope") })
	s.Reset()
	unsubscribe()
	s.ClearSubscribers()

	want := []observe.EventType{
		observe.EventStoreSubscribe,
		observe.EventStoreSet,
		observe.EventStoreUpdateFail,
		observe.EventStoreReset,
		observe.EventStoreUnsubscribe,
		observe.EventStoreClear,
	}
	if got := rec.Types(); !slices.Equal(got, want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for _, e := range rec.Events() {
		if e.Source != "counter" {
			t.Fatalf("event source = %q, want counter", e.Source)
		}
	}
}

func sameMap(a, b demoState) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}
