package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/statebox/internal/seed"
	"github.com/five82/statebox/internal/selector"
)

func TestUpdatersShareUntouchedEntries(t *testing.T) {
	doc := seed.Default()

	counted := Add(2)(doc)
	assert.Equal(t, int64(12), counted[seed.KeyCount])
	assert.Equal(t, int64(10), doc[seed.KeyCount], "updaters must not edit in place")
	assert.True(t, selector.Same(doc[seed.KeyHistory], counted[seed.KeyHistory]))
	assert.True(t, selector.Same(doc[seed.KeyTodos], counted[seed.KeyTodos]))

	pushed := PushHistory("b")(counted)
	assert.Equal(t, []string{"a", "b"}, Strings(pushed[seed.KeyHistory]))
	assert.Equal(t, []string{"a"}, Strings(counted[seed.KeyHistory]))
	assert.False(t, selector.Same(counted[seed.KeyHistory], pushed[seed.KeyHistory]))

	ticked := Tick()(pushed)
	assert.Equal(t, int64(1), ticked[seed.KeyTicks])
}

func TestTodoUpdaters(t *testing.T) {
	doc := AddTodo("one")(AddTodo("two")(seed.Default()))
	require.Len(t, TodoList(doc[seed.KeyTodos]), 2)

	done := CompleteFirst()(doc)
	todos := TodoList(done[seed.KeyTodos])
	assert.Equal(t, []Todo{{Title: "two", Done: true}, {Title: "one"}}, todos)
	assert.Equal(t, []Todo{{Title: "two"}, {Title: "one"}}, TodoList(doc[seed.KeyTodos]))

	all := CompleteFirst()(done)
	none := CompleteFirst()(all)
	assert.True(t, selector.Same(all, none), "nothing open returns the same document")
}

func TestActiveTodos(t *testing.T) {
	active := NewActiveTodos()
	doc := AddTodo("one")(seed.Default())

	first, err := active.Select(doc)
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, first)

	second, err := active.Select(Add(1)(doc))
	require.NoError(t, err)
	assert.True(t, selector.Same(first, second))

	third, err := active.Select(CompleteFirst()(doc))
	require.NoError(t, err)
	assert.Empty(t, third)
}

func TestIsEvenAndFocus(t *testing.T) {
	even, err := IsEven.Select(seed.Default())
	require.NoError(t, err)
	assert.True(t, even)

	assert.Equal(t, seed.KeyHistory, NextFocus(seed.KeyCount))
	assert.Equal(t, seed.KeyCount, NextFocus(seed.KeyTicks))
	assert.Equal(t, seed.KeyCount, NextFocus("unknown"))
	assert.Same(t, History, KeySelector(seed.KeyHistory))
	assert.Nil(t, KeySelector("unknown"))
	assert.Equal(t, int64(0), Int("x"))
	assert.Equal(t, int64(4), Int(4))
}
