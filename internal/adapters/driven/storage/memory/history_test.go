package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

func TestHistoryStore(t *testing.T) {
	store := NewHistoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Save(ctx, domain.AskRecord{ID: id, Question: "q-" + id}))
	}

	recent, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].ID)
	assert.Equal(t, "b", recent[1].ID)

	all, _ := store.List(ctx, 0)
	assert.Len(t, all, 3)

	require.NoError(t, store.Save(ctx, domain.AskRecord{ID: "a", Question: "updated"}))
	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "updated", got.Question)

	_, err = store.Get(ctx, "zzz")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
