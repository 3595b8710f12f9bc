package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

// snapshotCache implements driven.SnapshotCache.
type snapshotCache struct {
	store *Store
}

var _ driven.SnapshotCache = (*snapshotCache)(nil)

// Get returns the snapshot stored under key if it is younger than maxAge.
func (c *snapshotCache) Get(ctx context.Context, key string, maxAge time.Duration) (*domain.Snapshot, error) {
	var payload string
	var storedAt int64
	err := c.store.db.QueryRowContext(ctx,
		"SELECT payload, stored_at FROM snapshot_cache WHERE key = ?", key).Scan(&payload, &storedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading snapshot cache: %w", err)
	}

	if time.Since(time.UnixMilli(storedAt)) >= maxAge {
		return nil, domain.ErrNotFound
	}

	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(payload), &snap); err != nil {
		return nil, fmt.Errorf("unmarshaling snapshot: %w", err)
	}
	return &snap, nil
}

// Put stores or replaces the snapshot under key.
func (c *snapshotCache) Put(ctx context.Context, key string, snap *domain.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO snapshot_cache (key, payload, stored_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			stored_at = excluded.stored_at
	`, key, string(payload), time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// Invalidate removes every cached snapshot.
func (c *snapshotCache) Invalidate(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM snapshot_cache"); err != nil {
		return fmt.Errorf("clearing snapshot cache: %w", err)
	}
	return nil
}
