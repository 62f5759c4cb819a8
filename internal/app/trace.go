package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/five82/statebox/internal/bridge"
	"github.com/five82/statebox/internal/demo"
	"github.com/five82/statebox/internal/observe"
	"github.com/five82/statebox/internal/scope"
	"github.com/five82/statebox/internal/selector"
	"github.com/five82/statebox/internal/state"
)

// traceEvents lists the event types counted in the trace summary, in print order.
var traceEvents = []observe.EventType{
	observe.EventScopeCreate,
	observe.EventStoreSubscribe,
	observe.EventStoreSet,
	observe.EventStoreReset,
	observe.EventStoreUpdateFail,
	observe.EventStoreUnsubscribe,
	observe.EventStoreClear,
}

// tracer binds the same slices the UI panes use and records which of them
// refreshed on each step.
type tracer struct {
	store   *demo.Store
	changed []string

	counter *bridge.Binding[demo.Doc, any]
	history *bridge.Binding[demo.Doc, any]
	active  *bridge.Binding[demo.Doc, []string]
	parity  *bridge.Binding[demo.Doc, bool]
	focus   *bridge.Binding[demo.Doc, any]
	ticks   *bridge.Binding[demo.Doc, any]
}

type traceStep struct {
	name  string
	apply func(*tracer)
}

func write(updater func(demo.Doc) demo.Doc) func(*tracer) {
	return func(tr *tracer) { tr.store.SetState(updater) }
}

// traceScript is the fixed sequence Trace runs.
var traceScript = []traceStep{
	{"increment", write(demo.Add(1))},
	{"push history", write(demo.PushHistory("b"))},
	{"add todo", write(demo.AddTodo("milk"))},
	{"complete todo", write(demo.CompleteFirst())},
	{"complete todo (none open)", write(demo.CompleteFirst())},
	{"tick", write(demo.Tick())},
	{"focus history", func(tr *tracer) { tr.focus.SetSelector(demo.History) }},
	{"increment", write(demo.Add(1))},
	{"push history", write(demo.PushHistory("c"))},
	{"reset", func(tr *tracer) { tr.store.Reset() }},
}

// Trace runs a scripted series of writes against a store seeded with doc and
// writes one line per step naming the bindings that refreshed. Store events
// go to obs as well as to the summary at the end.
func Trace(ctx context.Context, w io.Writer, doc demo.Doc, obs observe.Observer) error {
	recorder := &observe.Recorder{}
	var sink observe.Observer = recorder
	if obs != nil {
		sink = observe.NewMultiObserver(recorder, obs)
	}

	factory := scope.New("trace", func() demo.Doc { return doc },
		state.WithName("trace"), state.WithObserver(sink)).WithObserver(sink)
	ctx = factory.Provide(ctx)

	store, err := factory.UseStore(ctx)
	if err != nil {
		return err
	}
	tr := &tracer{store: store}

	if err := tr.bind(ctx, factory); err != nil {
		return fmt.Errorf("trace: %w", err)
	}

	fmt.Fprintf(w, "v%d  start\n", store.Snapshot().Version)
	for _, step := range traceScript {
		if err := ctx.Err(); err != nil {
			tr.close()
			return err
		}
		tr.changed = tr.changed[:0]
		step.apply(tr)

		refreshed := "(none)"
		if len(tr.changed) > 0 {
			refreshed = strings.Join(tr.changed, " ")
		}
		fmt.Fprintf(w, "v%d  %s: %s\n", store.Snapshot().Version, step.name, refreshed)
	}

	fmt.Fprintf(w, "final: count=%d history=%v active=%v parity=%s ticks=%d\n",
		demo.Int(tr.counter.Value()),
		demo.Strings(tr.history.Value()),
		tr.active.Value(),
		parityName(tr.parity.Value()),
		demo.Int(tr.ticks.Value()),
	)
	fmt.Fprintf(w, "refreshes: counter=%d history=%d active=%d parity=%d focus=%d ticks=%d\n",
		tr.counter.Refreshes(), tr.history.Refreshes(), tr.active.Refreshes(),
		tr.parity.Refreshes(), tr.focus.Refreshes(), tr.ticks.Refreshes())

	tr.close()

	counts := make(map[observe.EventType]int)
	for _, typ := range recorder.Types() {
		counts[typ]++
	}
	parts := make([]string, 0, len(traceEvents))
	for _, typ := range traceEvents {
		if n := counts[typ]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", typ, n))
		}
	}
	fmt.Fprintf(w, "events: %s\n", strings.Join(parts, " "))
	return nil
}

func (tr *tracer) bind(ctx context.Context, factory *scope.Factory[demo.Doc]) error {
	var err error
	if tr.counter, err = watch(ctx, factory, tr, "counter", demo.Count); err != nil {
		return err
	}
	if tr.history, err = watch(ctx, factory, tr, "history", demo.History); err != nil {
		tr.close()
		return err
	}
	if tr.active, err = watch(ctx, factory, tr, "active", demo.NewActiveTodos()); err != nil {
		tr.close()
		return err
	}
	if tr.parity, err = watch(ctx, factory, tr, "parity", demo.IsEven); err != nil {
		tr.close()
		return err
	}
	if tr.focus, err = watch(ctx, factory, tr, "focus", demo.Count); err != nil {
		tr.close()
		return err
	}
	if tr.ticks, err = watch(ctx, factory, tr, "ticks", demo.Ticks); err != nil {
		tr.close()
		return err
	}
	return nil
}

func watch[R any](ctx context.Context, factory *scope.Factory[demo.Doc], tr *tracer, name string, sel selector.Selector[demo.Doc, R]) (*bridge.Binding[demo.Doc, R], error) {
	src, err := scope.Select(ctx, factory, sel)
	if err != nil {
		return nil, err
	}
	return bridge.Bind(src, func(R) {
		tr.changed = append(tr.changed, name)
	})
}

func (tr *tracer) close() {
	tr.counter.Close()
	tr.history.Close()
	tr.active.Close()
	tr.parity.Close()
	tr.focus.Close()
	tr.ticks.Close()
}

func parityName(even bool) string {
	if even {
		return "even"
	}
	return "odd"
}
