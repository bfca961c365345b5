package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SketchShifter/comment_widget_backend/internal/schema"
	"github.com/SketchShifter/comment_widget_backend/internal/testutil"
)

func newTestLikeService(store *testutil.MemoryStore) LikeService {
	return NewLikeService(store.Repositories().Likes, schema.NewGuard(store))
}

func TestLikeServiceToggle(t *testing.T) {
	ctx := context.Background()

	t.Run("toggle twice restores the initial state", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s := newTestLikeService(store)

		_, err := s.Toggle(ctx, "blog-1", "5.6.7.8")
		require.NoError(t, err)

		before, err := s.Get(ctx, "blog-1", "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, int64(1), before.Total)
		assert.False(t, before.Liked)

		on, err := s.Toggle(ctx, "blog-1", "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, on.Liked)
		assert.Equal(t, int64(2), on.Total)

		off, err := s.Toggle(ctx, "blog-1", "1.2.3.4")
		require.NoError(t, err)
		assert.False(t, off.Liked)
		assert.Equal(t, before.Total, off.Total)

		again, err := s.Toggle(ctx, "blog-1", "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, again.Liked)
	})

	t.Run("pages are counted separately", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s := newTestLikeService(store)

		_, err := s.Toggle(ctx, "blog-1", "1.2.3.4")
		require.NoError(t, err)

		status, err := s.Get(ctx, "blog-2", "1.2.3.4")
		require.NoError(t, err)
		assert.Equal(t, int64(0), status.Total)
		assert.False(t, status.Liked)
	})

	t.Run("missing tables are created lazily", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		store.SchemaReady = false
		s := newTestLikeService(store)

		status, err := s.Toggle(ctx, "blog-1", "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, status.Liked)
		assert.Equal(t, int64(1), status.Total)
		assert.Equal(t, 1, store.EnsureCalls)
	})

	t.Run("page id and ip are required", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s := newTestLikeService(store)

		var verr *ValidationError
		_, err := s.Toggle(ctx, "", "1.2.3.4")
		assert.True(t, errors.As(err, &verr))
		_, err = s.Get(ctx, "blog-1", "")
		assert.True(t, errors.As(err, &verr))
	})
}
