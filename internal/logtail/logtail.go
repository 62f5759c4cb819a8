package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Filter selects which log lines Read keeps.
type Filter struct {
	Lines int    // newest lines to keep; zero or negative keeps all
	Event string // exact msg value, e.g. "store.set"; empty matches any
	Level string // minimum slog level name; empty matches any
}

// Read returns the lines of the slog text log at path that pass f, oldest
// first. A missing file yields no lines and no error.
func Read(path string, f Filter) ([]string, error) {
	var minLevel slog.Level
	if f.Level != "" {
		if err := minLevel.UnmarshalText([]byte(f.Level)); err != nil {
			return nil, fmt.Errorf("logtail: level %q: %w", f.Level, err)
		}
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var kept []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if f.Event != "" && Field(line, "msg") != f.Event {
			continue
		}
		if f.Level != "" && !atLeast(line, minLevel) {
			continue
		}
		kept = append(kept, line)
		// Compact once the backlog doubles so memory stays O(Lines).
		if f.Lines > 0 && len(kept) >= 2*f.Lines {
			kept = append(kept[:0], kept[len(kept)-f.Lines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if f.Lines > 0 && len(kept) > f.Lines {
		kept = kept[len(kept)-f.Lines:]
	}
	return kept, nil
}

// Field returns the value of key in a slog text line, unquoting it when
// needed. Missing keys yield "".
func Field(line, key string) string {
	prefix := key + "="
	idx := -1
	switch {
	case strings.HasPrefix(line, prefix):
		idx = 0
	default:
		if i := strings.Index(line, " "+prefix); i >= 0 {
			idx = i + 1
		}
	}
	if idx < 0 {
		return ""
	}
	rest := line[idx+len(prefix):]
	if strings.HasPrefix(rest, `"`) {
		quoted, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return ""
		}
		value, err := strconv.Unquote(quoted)
		if err != nil {
			return ""
		}
		return value
	}
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		return rest[:end]
	}
	return rest
}

func atLeast(line string, min slog.Level) bool {
	var level slog.Level
	if err := level.UnmarshalText([]byte(Field(line, "level"))); err != nil {
		return false
	}
	return level >= min
}
