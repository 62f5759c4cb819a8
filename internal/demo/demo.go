// Package demo holds the state document, selectors and updaters shared by
// the terminal UI and the trace command. Every updater copies only the map
// and the entry it changes; the rest of the document keeps its identity.
package demo

import (
	"maps"
	"slices"

	"github.com/five82/statebox/internal/seed"
	"github.com/five82/statebox/internal/selector"
	"github.com/five82/statebox/internal/state"
)

// Doc is the demo state document.
type Doc = map[string]any

// Todo is one entry of the todos list.
type Todo struct {
	Title string
	Done  bool
}

// Store is the store type the demo runs on.
type Store = state.Store[Doc]

// Selectors used by the UI panes. They are built once so memo slots hit.
var (
	Count   = selector.ByKey[string, any](seed.KeyCount)
	History = selector.ByKey[string, any](seed.KeyHistory)
	Todos   = selector.ByKey[string, any](seed.KeyTodos)
	Ticks   = selector.ByKey[string, any](seed.KeyTicks)
	IsEven  = selector.MustExpr[bool](`$env["count"] % 2 == 0`)
)

// NewActiveTodos returns a composed selector listing the titles of todos not
// yet done. The list keeps its identity until the todos entry is replaced.
func NewActiveTodos() *selector.Composed[Doc, any, []string] {
	return selector.Compose[Doc, any, []string](Todos, func(raw any) []string {
		var titles []string
		for _, todo := range TodoList(raw) {
			if !todo.Done {
				titles = append(titles, todo.Title)
			}
		}
		return titles
	})
}

// FocusKeys lists the keys the focus pane cycles through.
var FocusKeys = []string{seed.KeyCount, seed.KeyHistory, seed.KeyTodos, seed.KeyTicks}

// KeySelector returns the shared key selector for name, or nil when name is
// not one of FocusKeys.
func KeySelector(name string) *selector.Key[string, any] {
	switch name {
	case seed.KeyCount:
		return Count
	case seed.KeyHistory:
		return History
	case seed.KeyTodos:
		return Todos
	case seed.KeyTicks:
		return Ticks
	}
	return nil
}

// NextFocus returns the key after current in FocusKeys.
func NextFocus(current string) string {
	idx := slices.Index(FocusKeys, current)
	return FocusKeys[(idx+1)%len(FocusKeys)]
}

// Add returns an updater that adds delta to count.
func Add(delta int64) func(Doc) Doc {
	return func(prev Doc) Doc {
		next := maps.Clone(prev)
		next[seed.KeyCount] = Int(prev[seed.KeyCount]) + delta
		return next
	}
}

// Tick returns an updater that increments ticks.
func Tick() func(Doc) Doc {
	return func(prev Doc) Doc {
		next := maps.Clone(prev)
		next[seed.KeyTicks] = Int(prev[seed.KeyTicks]) + 1
		return next
	}
}

// PushHistory returns an updater that appends entry to history.
func PushHistory(entry string) func(Doc) Doc {
	return func(prev Doc) Doc {
		next := maps.Clone(prev)
		history, _ := prev[seed.KeyHistory].([]any)
		next[seed.KeyHistory] = append(slices.Clip(history), entry)
		return next
	}
}

// AddTodo returns an updater that appends an open todo.
func AddTodo(title string) func(Doc) Doc {
	return func(prev Doc) Doc {
		next := maps.Clone(prev)
		todos, _ := prev[seed.KeyTodos].([]any)
		next[seed.KeyTodos] = append(slices.Clip(todos), map[string]any{"title": title, "done": false})
		return next
	}
}

// CompleteFirst returns an updater that marks the first open todo done. The
// document is returned unchanged when nothing is open.
func CompleteFirst() func(Doc) Doc {
	return func(prev Doc) Doc {
		todos, _ := prev[seed.KeyTodos].([]any)
		for i, entry := range todos {
			todo, _ := entry.(map[string]any)
			if done, _ := todo["done"].(bool); done {
				continue
			}
			updated := maps.Clone(todo)
			updated["done"] = true
			list := slices.Clone(todos)
			list[i] = updated

			next := maps.Clone(prev)
			next[seed.KeyTodos] = list
			return next
		}
		return prev
	}
}

// TodoList converts the raw todos entry into typed values.
func TodoList(raw any) []Todo {
	entries, _ := raw.([]any)
	out := make([]Todo, 0, len(entries))
	for _, entry := range entries {
		todo, _ := entry.(map[string]any)
		title, _ := todo["title"].(string)
		done, _ := todo["done"].(bool)
		out = append(out, Todo{Title: title, Done: done})
	}
	return out
}

// Strings converts a raw []any of strings.
func Strings(raw any) []string {
	entries, _ := raw.([]any)
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if s, ok := entry.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Int reads an integer entry, accepting the widths decoders produce.
func Int(raw any) int64 {
	switch v := raw.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	default:
		return 0
	}
}
