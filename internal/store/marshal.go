package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// encodeJSON serializes v with HTML escaping disabled, so stored values
// keep characters such as '&' and '<' readable.
func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// collection is a typed JSON array stored under a single key.
type collection[T any] struct {
	kv  *KV
	key string
}

// load returns the stored items, or an empty slice when the key is
// missing, unreadable, or does not parse. Failures are logged, never
// returned.
func (c collection[T]) load(ctx context.Context) []T {
	raw, ok, err := c.kv.Get(ctx, c.key)
	if err != nil {
		c.kv.store.logger.Error("error reading collection", "key", c.key, "error", err)
		return []T{}
	}
	if !ok || raw == "" {
		return []T{}
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.kv.store.logger.Error("error parsing collection", "key", c.key, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// save replaces the stored collection with items.
func (c collection[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := encodeJSON(items)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", c.key, err)
	}
	return c.kv.Set(ctx, c.key, data)
}

// seedIfAbsent writes items only when the key has never been set.
// Returns true when the seed was written.
func (c collection[T]) seedIfAbsent(ctx context.Context, items []T) (bool, error) {
	exists, err := c.kv.Has(ctx, c.key)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := c.save(ctx, items); err != nil {
		return false, err
	}
	return true, nil
}
