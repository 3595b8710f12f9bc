package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

func TestSnapshotCache(t *testing.T) {
	cache := NewSnapshotCache()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	_, err := cache.Get(ctx, "excel", time.Minute)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	snap := &domain.Snapshot{Source: "excel"}
	require.NoError(t, cache.Put(ctx, "excel", snap))

	got, err := cache.Get(ctx, "excel", time.Minute)
	require.NoError(t, err)
	assert.Same(t, snap, got)

	now = now.Add(2 * time.Minute)
	_, err = cache.Get(ctx, "excel", time.Minute)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, cache.Invalidate(ctx))
	_, err = cache.Get(ctx, "excel", time.Hour)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
