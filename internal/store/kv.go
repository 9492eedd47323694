package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Scope separates persistent keys from per-session keys.
type Scope string

const (
	ScopeLocal   Scope = "local"
	ScopeSession Scope = "session"
)

// KV is one scope of the key-value table.
type KV struct {
	store *Store
	scope Scope
}

// Scope returns which scope this KV addresses.
func (kv *KV) Scope() Scope {
	return kv.scope
}

// Get returns the raw value stored under key.
// The boolean is false when the key is absent.
func (kv *KV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := kv.store.db.QueryRowContext(ctx, `
		SELECT value FROM kv WHERE scope = ? AND key = ?
	`, string(kv.scope), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s/%s: %w", kv.scope, key, err)
	}
	return value, true, nil
}

// Has reports whether key is present. Storage errors are returned.
func (kv *KV) Has(ctx context.Context, key string) (bool, error) {
	var count int
	err := kv.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM kv WHERE scope = ? AND key = ?
	`, string(kv.scope), key).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("has %s/%s: %w", kv.scope, key, err)
	}
	return count > 0, nil
}

// Set stores value under key, replacing any previous value.
func (kv *KV) Set(ctx context.Context, key, value string) error {
	_, err := kv.store.db.ExecContext(ctx, `
		INSERT INTO kv (scope, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, string(kv.scope), key, value, kv.store.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", kv.scope, key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (kv *KV) Remove(ctx context.Context, key string) error {
	_, err := kv.store.db.ExecContext(ctx, `
		DELETE FROM kv WHERE scope = ? AND key = ?
	`, string(kv.scope), key)
	if err != nil {
		return fmt.Errorf("remove %s/%s: %w", kv.scope, key, err)
	}
	return nil
}

// Clear deletes every key in the scope.
func (kv *KV) Clear(ctx context.Context) error {
	_, err := kv.store.db.ExecContext(ctx, `DELETE FROM kv WHERE scope = ?`, string(kv.scope))
	if err != nil {
		return fmt.Errorf("clear %s: %w", kv.scope, err)
	}
	return nil
}

// PruneBefore deletes keys in the scope last written before cutoff and
// returns how many were removed.
func (kv *KV) PruneBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := kv.store.db.ExecContext(ctx, `
		DELETE FROM kv WHERE scope = ? AND updated_at < ?
	`, string(kv.scope), cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", kv.scope, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune %s: %w", kv.scope, err)
	}
	return n, nil
}

// Keys returns all keys in the scope in ascending order.
// Returns an empty slice (not nil) when the scope is empty.
func (kv *KV) Keys(ctx context.Context) ([]string, error) {
	rows, err := kv.store.db.QueryContext(ctx, `
		SELECT key FROM kv WHERE scope = ? ORDER BY key COLLATE BINARY ASC
	`, string(kv.scope))
	if err != nil {
		return nil, fmt.Errorf("query keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// ClearSession wipes the session scope, as starting a new browser
// session would.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.session.Clear(ctx)
}

// ExpireSession drops session-scope keys idle for longer than idle.
// The local scope is never touched.
func (s *Store) ExpireSession(ctx context.Context, idle time.Duration) (int64, error) {
	return s.session.PruneBefore(ctx, s.now().Add(-idle))
}
