package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// SnapshotCache persists cleaned snapshots between runs.
type SnapshotCache interface {
	// Get returns the cached snapshot for key if it was stored within maxAge.
	// Returns domain.ErrNotFound on a miss or when the entry is stale.
	Get(ctx context.Context, key string, maxAge time.Duration) (*domain.Snapshot, error)

	// Put stores a snapshot under key, replacing any previous entry.
	Put(ctx context.Context, key string, snap *domain.Snapshot) error

	// Invalidate removes every cached snapshot.
	Invalidate(ctx context.Context) error
}

// HistoryStore records completed assistant exchanges.
type HistoryStore interface {
	// Save records an exchange.
	Save(ctx context.Context, rec domain.AskRecord) error

	// List returns the most recent exchanges, newest first.
	List(ctx context.Context, limit int) ([]domain.AskRecord, error)

	// Get returns a single exchange by ID.
	Get(ctx context.Context, id string) (*domain.AskRecord, error)
}
