package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/SketchShifter/comment_widget_backend/internal/schema"
	"github.com/SketchShifter/comment_widget_backend/internal/testutil"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestCommentService(store *testutil.MemoryStore) (*commentService, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	s := newCommentService(store.Repositories().Comments, schema.NewGuard(store), CommentOptions{
		RateLimitWindow: 10 * time.Second,
		BcryptCost:      bcrypt.MinCost,
	})
	s.now = clock.Now
	return s, clock
}

func TestCommentServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("created comment is listed", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, _ := newTestCommentService(store)

		id, err := s.Create(ctx, "blog-1", "ann", "1234", "hi", "1.2.3.4")
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		comments, total, err := s.List(ctx, "blog-1", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, comments, 1)
		assert.Equal(t, id, comments[0].ID)
		assert.Equal(t, "ann", comments[0].Nickname)
		assert.Equal(t, "hi", comments[0].Content)
		assert.Equal(t, "1.2.3.4", comments[0].IP)
	})

	t.Run("password is stored as bcrypt hash", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, _ := newTestCommentService(store)

		id, err := s.Create(ctx, "blog-1", "ann", "abcd", "hi", "1.2.3.4")
		require.NoError(t, err)

		stored, ok := store.Comment(id)
		require.True(t, ok)
		assert.NotEqual(t, "abcd", stored.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("abcd")))
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name     string
			pageID   string
			nickname string
			password string
			content  string
			wantMsg  string
		}{
			{"missing page", "", "ann", "1234", "hi", "すべての項目"},
			{"missing nickname", "blog-1", "", "1234", "hi", "すべての項目"},
			{"missing password", "blog-1", "ann", "", "hi", "すべての項目"},
			{"missing content", "blog-1", "ann", "1234", "", "すべての項目"},
			{"long nickname", "blog-1", strings.Repeat("a", 21), "1234", "hi", "ニックネーム"},
			{"short password", "blog-1", "ann", "123", "hi", "パスワード"},
			{"long password", "blog-1", "ann", "12345", "hi", "パスワード"},
			{"long content", "blog-1", "ann", "1234", strings.Repeat("あ", 501), "コメント"},
			{"nickname checked before password", "blog-1", strings.Repeat("a", 21), "1", "hi", "ニックネーム"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := testutil.NewMemoryStore()
				s, _ := newTestCommentService(store)

				_, err := s.Create(ctx, tt.pageID, tt.nickname, tt.password, tt.content, "1.2.3.4")
				var verr *ValidationError
				require.True(t, errors.As(err, &verr), "expected validation error, got %v", err)
				assert.Contains(t, verr.Message, tt.wantMsg)
			})
		}
	})

	t.Run("limits count characters not bytes", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, _ := newTestCommentService(store)

		_, err := s.Create(ctx, "blog-1", strings.Repeat("名", 20), "パスワド", strings.Repeat("あ", 500), "1.2.3.4")
		assert.NoError(t, err)
	})

	t.Run("rate limited within window", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, clock := newTestCommentService(store)

		_, err := s.Create(ctx, "blog-1", "ann", "1234", "first", "1.2.3.4")
		require.NoError(t, err)

		clock.Advance(9 * time.Second)
		_, err = s.Create(ctx, "blog-1", "ann", "1234", "second", "1.2.3.4")
		assert.ErrorIs(t, err, ErrRateLimited)

		clock.Advance(time.Second)
		_, err = s.Create(ctx, "blog-1", "ann", "1234", "third", "1.2.3.4")
		assert.NoError(t, err)
	})

	t.Run("rate limit applies across pages", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, _ := newTestCommentService(store)

		_, err := s.Create(ctx, "blog-1", "ann", "1234", "first", "1.2.3.4")
		require.NoError(t, err)

		_, err = s.Create(ctx, "blog-2", "ann", "1234", "other page", "1.2.3.4")
		assert.ErrorIs(t, err, ErrRateLimited)

		_, err = s.Create(ctx, "blog-1", "bob", "1234", "other ip", "5.6.7.8")
		assert.NoError(t, err)
	})

	t.Run("rate limit lookup failure does not block", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		store.LatestErr = errors.New("connection reset")
		s, _ := newTestCommentService(store)

		_, err := s.Create(ctx, "blog-1", "ann", "1234", "first", "1.2.3.4")
		require.NoError(t, err)
		_, err = s.Create(ctx, "blog-1", "ann", "1234", "second", "1.2.3.4")
		assert.NoError(t, err)
	})

	t.Run("missing tables are created lazily", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		store.SchemaReady = false
		s, _ := newTestCommentService(store)

		id, err := s.Create(ctx, "blog-1", "ann", "1234", "hi", "1.2.3.4")
		require.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.Equal(t, 1, store.EnsureCalls)
	})

	t.Run("tables still missing after creation is fatal", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		store.SchemaReady = false
		store.NeverReady = true
		s, _ := newTestCommentService(store)

		_, err := s.Create(ctx, "blog-1", "ann", "1234", "hi", "1.2.3.4")
		assert.ErrorIs(t, err, schema.ErrSchemaUnavailable)
		assert.Equal(t, 1, store.EnsureCalls)
	})
}

func TestCommentServiceList(t *testing.T) {
	ctx := context.Background()

	t.Run("pagination newest first", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, clock := newTestCommentService(store)

		for i := 0; i < 25; i++ {
			_, err := s.Create(ctx, "blog-1", "ann", "1234", fmt.Sprintf("comment %d", i), fmt.Sprintf("10.0.0.%d", i))
			require.NoError(t, err)
			clock.Advance(time.Second)
		}

		page1, total, err := s.List(ctx, "blog-1", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		require.Len(t, page1, 10)
		assert.Equal(t, "comment 24", page1[0].Content)

		page2, total, err := s.List(ctx, "blog-1", 2, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		require.Len(t, page2, 10)

		page3, total, err := s.List(ctx, "blog-1", 3, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(25), total)
		require.Len(t, page3, 5)
		assert.Equal(t, "comment 0", page3[4].Content)

		all := append(append(page1, page2...), page3...)
		for i := 1; i < len(all); i++ {
			assert.False(t, all[i].CreatedAt.After(all[i-1].CreatedAt), "comments must be newest first")
		}
	})

	t.Run("other pages are not included", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, _ := newTestCommentService(store)

		_, err := s.Create(ctx, "blog-2", "ann", "1234", "hi", "1.2.3.4")
		require.NoError(t, err)

		comments, total, err := s.List(ctx, "blog-1", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.NotNil(t, comments)
		assert.Empty(t, comments)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		s, _ := newTestCommentService(store)

		var verr *ValidationError
		_, _, err := s.List(ctx, "", 1, 10)
		assert.True(t, errors.As(err, &verr))
		_, _, err = s.List(ctx, "blog-1", 0, 10)
		assert.True(t, errors.As(err, &verr))
		_, _, err = s.List(ctx, "blog-1", 1, 0)
		assert.True(t, errors.As(err, &verr))
	})

	t.Run("offset overflow is rejected before querying", func(t *testing.T) {
		store := testutil.NewMemoryStore()
		store.SchemaReady = false
		s, _ := newTestCommentService(store)

		var verr *ValidationError
		_, _, err := s.List(ctx, "blog-1", 100000000000000001, 100)
		assert.True(t, errors.As(err, &verr))
		_, _, err = s.List(ctx, "blog-1", math.MaxInt/2+2, 2)
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, 0, store.EnsureCalls)

		// 上限ちょうどのオフセットは受け付ける
		comments, total, err := s.List(ctx, "blog-1", math.MaxInt/100+1, 100)
		require.NoError(t, err)
		assert.Empty(t, comments)
		assert.Equal(t, int64(0), total)
	})
}

func TestCommentServiceDelete(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*commentService, *testutil.MemoryStore, string) {
		store := testutil.NewMemoryStore()
		s, _ := newTestCommentService(store)
		id, err := s.Create(ctx, "blog-1", "ann", "1234", "hi", "1.2.3.4")
		require.NoError(t, err)
		return s, store, id
	}

	t.Run("different identity is forbidden even with correct password", func(t *testing.T) {
		s, store, id := setup(t)

		err := s.Delete(ctx, id, "1234", "5.6.7.8")
		assert.ErrorIs(t, err, ErrForbidden)
		_, ok := store.Comment(id)
		assert.True(t, ok)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		s, store, id := setup(t)

		err := s.Delete(ctx, id, "9999", "1.2.3.4")
		assert.ErrorIs(t, err, ErrWrongPassword)
		_, ok := store.Comment(id)
		assert.True(t, ok)
	})

	t.Run("identity is checked before password", func(t *testing.T) {
		s, _, id := setup(t)

		err := s.Delete(ctx, id, "9999", "5.6.7.8")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("owner with correct password deletes", func(t *testing.T) {
		s, store, id := setup(t)

		require.NoError(t, s.Delete(ctx, id, "1234", "1.2.3.4"))
		_, ok := store.Comment(id)
		assert.False(t, ok)

		comments, total, err := s.List(ctx, "blog-1", 1, 10)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, comments)
	})

	t.Run("unknown comment", func(t *testing.T) {
		s, _, _ := setup(t)

		err := s.Delete(ctx, "00000000-0000-0000-0000-000000000000", "1234", "1.2.3.4")
		assert.ErrorIs(t, err, ErrCommentNotFound)
	})

	t.Run("missing password", func(t *testing.T) {
		s, _, id := setup(t)

		var verr *ValidationError
		err := s.Delete(ctx, id, "", "1.2.3.4")
		assert.True(t, errors.As(err, &verr))
	})
}
