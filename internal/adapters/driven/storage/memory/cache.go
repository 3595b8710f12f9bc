package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

// Ensure SnapshotCache implements the interface.
var _ driven.SnapshotCache = (*SnapshotCache)(nil)

type cacheEntry struct {
	snap     *domain.Snapshot
	storedAt time.Time
}

// SnapshotCache is an in-memory implementation of driven.SnapshotCache.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	now     func() time.Time
}

// NewSnapshotCache creates a new in-memory snapshot cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{entries: make(map[string]cacheEntry), now: time.Now}
}

// Get returns the snapshot stored under key within maxAge.
func (c *SnapshotCache) Get(_ context.Context, key string, maxAge time.Duration) (*domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.storedAt) >= maxAge {
		return nil, domain.ErrNotFound
	}
	return e.snap, nil
}

// Put stores a snapshot under key.
func (c *SnapshotCache) Put(_ context.Context, key string, snap *domain.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{snap: snap, storedAt: c.now()}
	return nil
}

// Invalidate removes every entry.
func (c *SnapshotCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	return nil
}
