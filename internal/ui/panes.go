package ui

import (
	"github.com/five82/statebox/internal/bridge"
	"github.com/five82/statebox/internal/demo"
)

// Pane names, in display order.
const (
	paneCounter = "counter"
	paneHistory = "history"
	paneActive  = "active"
	paneParity  = "parity"
	paneFocus   = "focus"
	paneTicks   = "ticks"
)

var paneOrder = []string{paneCounter, paneHistory, paneActive, paneParity, paneFocus, paneTicks}

// panes owns one binding per pane. It is shared by every copy of Model so
// binding callbacks land in the same place regardless of which copy Bubble
// Tea is holding.
type panes struct {
	counter *bridge.Binding[demo.Doc, any]
	history *bridge.Binding[demo.Doc, any]
	active  *bridge.Binding[demo.Doc, []string]
	parity  *bridge.Binding[demo.Doc, bool]
	focus   *bridge.Binding[demo.Doc, any]
	ticks   *bridge.Binding[demo.Doc, any]

	focusKey string

	// Write sequence at which each pane last refreshed.
	seq   int
	fresh map[string]int

	lastErr error
}

func bindPanes(store *demo.Store, focusKey string) (*panes, error) {
	if demo.KeySelector(focusKey) == nil {
		focusKey = demo.FocusKeys[0]
	}
	p := &panes{focusKey: focusKey, fresh: make(map[string]int)}

	var err error
	onError := bridge.OnError(func(e error) { p.lastErr = e })

	if p.counter, err = bridge.Bind(bridge.NewSource(store, demo.Count), p.touch(paneCounter), onError); err != nil {
		return nil, err
	}
	if p.history, err = bridge.Bind(bridge.NewSource(store, demo.History), p.touch(paneHistory), onError); err != nil {
		p.close()
		return nil, err
	}
	if p.active, err = bridge.Bind(bridge.NewSource(store, demo.NewActiveTodos()), touch[[]string](p, paneActive), onError); err != nil {
		p.close()
		return nil, err
	}
	if p.parity, err = bridge.Bind(bridge.NewSource(store, demo.IsEven), touch[bool](p, paneParity), onError); err != nil {
		p.close()
		return nil, err
	}
	if p.focus, err = bridge.Bind(bridge.NewSource(store, demo.KeySelector(focusKey)), p.touch(paneFocus), onError); err != nil {
		p.close()
		return nil, err
	}
	if p.ticks, err = bridge.Bind(bridge.NewSource(store, demo.Ticks), p.touch(paneTicks), onError); err != nil {
		p.close()
		return nil, err
	}
	return p, nil
}

func (p *panes) touch(name string) func(any) {
	return touch[any](p, name)
}

func touch[R any](p *panes, name string) func(R) {
	return func(R) {
		p.fresh[name] = p.seq
	}
}

// markWrite records the sequence number of the write about to happen.
func (p *panes) markWrite(seq int) {
	p.seq = seq
	p.lastErr = nil
}

// isFresh reports whether name refreshed on the latest write.
func (p *panes) isFresh(name string) bool {
	seq, ok := p.fresh[name]
	return ok && p.seq > 0 && seq == p.seq
}

// cycleFocus moves the focus pane to the next key.
func (p *panes) cycleFocus() {
	p.focusKey = demo.NextFocus(p.focusKey)
	p.focus.SetSelector(demo.KeySelector(p.focusKey))
}

func (p *panes) refreshes() map[string]int {
	out := make(map[string]int, len(paneOrder))
	if p.counter != nil {
		out[paneCounter] = p.counter.Refreshes()
	}
	if p.history != nil {
		out[paneHistory] = p.history.Refreshes()
	}
	if p.active != nil {
		out[paneActive] = p.active.Refreshes()
	}
	if p.parity != nil {
		out[paneParity] = p.parity.Refreshes()
	}
	if p.focus != nil {
		out[paneFocus] = p.focus.Refreshes()
	}
	if p.ticks != nil {
		out[paneTicks] = p.ticks.Refreshes()
	}
	return out
}

func (p *panes) close() {
	for _, closer := range []interface{ Close() }{p.counter, p.history, p.active, p.parity, p.focus, p.ticks} {
		if closer != nil {
			closer.Close()
		}
	}
}
