// Package seed produces the initial state document for the demo store.
//
// Documents are TOML or YAML, chosen by file extension. Integers are
// normalized to int64 and arrays to []any so selectors and expressions see
// the same shapes no matter which format was used. Keys missing from the
// file are filled from Default.
package seed

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Well-known keys of the demo state.
const (
	KeyCount   = "count"
	KeyHistory = "history"
	KeyTodos   = "todos"
	KeyTicks   = "ticks"
)

// ErrUnsupportedFormat is returned for extensions other than .toml, .yaml and .yml.
var ErrUnsupportedFormat = errors.New("seed: unsupported format")

// ErrInvalidDocument is returned when a well-known key has the wrong shape.
var ErrInvalidDocument = errors.New("seed: invalid document")

// Default returns the built-in initial state.
func Default() map[string]any {
	return map[string]any{
		KeyCount:   int64(10),
		KeyHistory: []any{"a"},
		KeyTodos:   []any{},
		KeyTicks:   int64(0),
	}
}

// Load reads the document at path. An empty path returns Default().
func Load(path string) (map[string]any, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: read %s: %w", path, err)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes data in the format named by ext (".toml", ".yaml", ".yml").
func Parse(ext string, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("seed: parse toml: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("seed: parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	doc := Default()
	for k, v := range raw {
		n, err := normalize(v)
		if err != nil {
			return nil, fmt.Errorf("seed: %s: %w", k, err)
		}
		doc[k] = n
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks the shapes of the well-known keys.
func Validate(doc map[string]any) error {
	if _, ok := doc[KeyCount].(int64); !ok {
		return fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidDocument, KeyCount, doc[KeyCount])
	}
	if _, ok := doc[KeyTicks].(int64); !ok {
		return fmt.Errorf("%w: %s must be an integer, got %T", ErrInvalidDocument, KeyTicks, doc[KeyTicks])
	}
	history, ok := doc[KeyHistory].([]any)
	if !ok {
		return fmt.Errorf("%w: %s must be a list, got %T", ErrInvalidDocument, KeyHistory, doc[KeyHistory])
	}
	for i, entry := range history {
		if _, ok := entry.(string); !ok {
			return fmt.Errorf("%w: %s[%d] must be a string", ErrInvalidDocument, KeyHistory, i)
		}
	}
	todos, ok := doc[KeyTodos].([]any)
	if !ok {
		return fmt.Errorf("%w: %s must be a list, got %T", ErrInvalidDocument, KeyTodos, doc[KeyTodos])
	}
	for i, entry := range todos {
		todo, ok := entry.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s[%d] must be a table", ErrInvalidDocument, KeyTodos, i)
		}
		if _, ok := todo["title"].(string); !ok {
			return fmt.Errorf("%w: %s[%d].title must be a string", ErrInvalidDocument, KeyTodos, i)
		}
		if done, present := todo["done"]; present {
			if _, ok := done.(bool); !ok {
				return fmt.Errorf("%w: %s[%d].done must be a boolean", ErrInvalidDocument, KeyTodos, i)
			}
		}
	}
	return nil
}

func normalize(v any) (any, error) {
	switch value := v.(type) {
	case int:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case uint64:
		if value > math.MaxInt64 {
			return nil, fmt.Errorf("%w: integer %d overflows int64", ErrInvalidDocument, value)
		}
		return int64(value), nil
	case []any:
		return normalizeList(value)
	case []map[string]any:
		list := make([]any, len(value))
		for i, entry := range value {
			list[i] = entry
		}
		return normalizeList(list)
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, entry := range value {
			n, err := normalize(entry)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	default:
		return v, nil
	}
}

func normalizeList(list []any) ([]any, error) {
	out := make([]any, len(list))
	for i, entry := range list {
		n, err := normalize(entry)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
