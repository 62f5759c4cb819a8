package observe

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LevelVerbose.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LevelInfo.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LevelWarning.SlogLevel())
	assert.Equal(t, slog.LevelError, LevelError.SlogLevel())
	assert.Equal(t, "WARN", LevelWarning.String())
}

func TestSlogObserver_WritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	obs := NewSlogObserver(logger)

	obs.OnEvent(context.Background(), Event{
		Type:      EventStoreSet,
		Level:     LevelVerbose,
		Timestamp: time.Now(),
		Source:    "state",
		Data:      map[string]any{"version": uint64(3), "subscribers": 2},
	})

	out := buf.String()
	assert.Contains(t, out, "msg=store.set")
	assert.Contains(t, out, "source=state")
	assert.Contains(t, out, "subscribers=2")
	assert.Contains(t, out, "version=3")
}

func TestMultiObserver_SkipsNil(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	multi := NewMultiObserver(a, nil, b)

	multi.OnEvent(context.Background(), Event{Type: EventStoreReset})

	require.Len(t, a.Events(), 1)
	require.Len(t, b.Events(), 1)
	assert.Equal(t, []EventType{EventStoreReset}, b.Types())

	a.Reset()
	assert.Empty(t, a.Events())
}
