package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/workspace-agent/internal/core/domain"
)

func TestActivityStore_RecordAndRecent(t *testing.T) {
	store := NewActivityStore(3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Record(ctx, &domain.Activity{Request: fmt.Sprintf("r%d", i)}))
	}

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "r4", recent[0].Request)
	assert.Equal(t, "r2", recent[2].Request)
	assert.NotEmpty(t, recent[0].ID)

	recent, err = store.Recent(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestActivityStore_Clear(t *testing.T) {
	store := NewActivityStore(0)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &domain.Activity{Request: "x"}))
	require.NoError(t, store.Clear(ctx))

	recent, err := store.Recent(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)

	assert.ErrorIs(t, store.Record(ctx, nil), domain.ErrInvalidInput)
}
