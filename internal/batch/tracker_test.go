package batch_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alipouw13/ai-claims-analysis-sub001/internal/batch"
)

func TestMemoryTracker(t *testing.T) {
	ctx := context.Background()

	t.Run("Lifecycle", func(t *testing.T) {
		tr := batch.NewMemoryTracker()
		require.NoError(t, tr.Create(ctx, "batch-1", 3))

		require.NoError(t, tr.IncrementCompleted(ctx, "batch-1"))
		require.NoError(t, tr.IncrementCompleted(ctx, "batch-1"))
		require.NoError(t, tr.IncrementFailed(ctx, "batch-1"))

		s, err := tr.Get(ctx, "batch-1")
		require.NoError(t, err)
		assert.Equal(t, 2, s.Completed)
		assert.Equal(t, 1, s.Failed)
		assert.True(t, s.Done())

		require.NoError(t, tr.Delete(ctx, "batch-1"))
		_, err = tr.Get(ctx, "batch-1")
		assert.ErrorIs(t, err, batch.ErrNotFound)
	})

	t.Run("Unknown Batch", func(t *testing.T) {
		tr := batch.NewMemoryTracker()
		assert.ErrorIs(t, tr.IncrementCompleted(ctx, "nope"), batch.ErrNotFound)
		assert.ErrorIs(t, tr.IncrementFailed(ctx, "nope"), batch.ErrNotFound)
		_, err := tr.Get(ctx, "nope")
		assert.ErrorIs(t, err, batch.ErrNotFound)
	})

	t.Run("Get Returns A Copy", func(t *testing.T) {
		tr := batch.NewMemoryTracker()
		require.NoError(t, tr.Create(ctx, "batch-1", 1))

		s, err := tr.Get(ctx, "batch-1")
		require.NoError(t, err)
		s.Completed = 99

		fresh, err := tr.Get(ctx, "batch-1")
		require.NoError(t, err)
		assert.Equal(t, 0, fresh.Completed)
	})

	t.Run("Concurrent Increments", func(t *testing.T) {
		tr := batch.NewMemoryTracker()
		require.NoError(t, tr.Create(ctx, "batch-1", 100))

		var wg sync.WaitGroup
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = tr.IncrementCompleted(ctx, "batch-1")
			}()
		}
		wg.Wait()

		s, err := tr.Get(ctx, "batch-1")
		require.NoError(t, err)
		assert.Equal(t, 100, s.Completed)
		assert.True(t, s.Done())
	})
}

func TestStatus_Done(t *testing.T) {
	assert.False(t, batch.Status{Total: 3, Completed: 1, Failed: 1}.Done())
	assert.True(t, batch.Status{Total: 3, Completed: 2, Failed: 1}.Done())
	assert.True(t, batch.Status{Total: 0}.Done())
}
