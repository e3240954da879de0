package batch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/batch"
	"github.com/alipouw13/ai-claims-analysis-sub001/internal/testutils"
)

func TestPostgresRepo_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	s := testutils.NewIntegrationSuite(t)
	s.Setup()
	defer s.Teardown()

	repo := batch.NewPostgresRepo(s.DB)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, "batch-1", 2))

	require.NoError(t, repo.IncrementCompleted(ctx, "batch-1"))
	require.NoError(t, repo.IncrementFailed(ctx, "batch-1"))

	st, err := repo.Get(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, 2, st.Total)
	assert.Equal(t, 1, st.Completed)
	assert.Equal(t, 1, st.Failed)
	assert.True(t, st.Done())
	assert.False(t, st.CreatedAt.IsZero())

	// Re-creating the same batch resets its counters.
	require.NoError(t, repo.Create(ctx, "batch-1", 5))
	st, err = repo.Get(ctx, "batch-1")
	require.NoError(t, err)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 0, st.Completed)
	assert.Equal(t, 0, st.Failed)

	assert.ErrorIs(t, repo.IncrementCompleted(ctx, "missing"), batch.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, "batch-1"))
	_, err = repo.Get(ctx, "batch-1")
	assert.ErrorIs(t, err, batch.ErrNotFound)
}
