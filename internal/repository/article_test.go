package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
)

func newTestStore(t *testing.T) *docstore.Store {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return docstore.New(rdb)
}

func sampleArticle(id string, createdAt time.Time) *models.Article {
	return &models.Article{
		ID:         id,
		Title:      "title " + id,
		Content:    "content",
		AuthorID:   "author-1",
		AuthorName: "alice",
		CategoryID: "backend",
		Tags:       []string{"go", "redis"},
		IsPublic:   true,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestArticleRepository_RoundTrip(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewArticleRepository(store)
	ctx := context.Background()

	now := time.Now().Truncate(time.Millisecond)
	article := sampleArticle("a1", now)
	article.PublishedAt = now

	b := store.Batch()
	repo.CreateIn(b, article)
	require.NoError(t, b.Commit(ctx))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, article.Title, got.Title)
	assert.Equal(t, article.Tags, got.Tags)
	assert.True(t, got.IsPublic)
	assert.True(t, now.Equal(got.CreatedAt))
	assert.True(t, now.Equal(got.PublishedAt))
}

func TestArticleRepository_GetMissing(t *testing.T) {
	t.Parallel()
	repo := NewArticleRepository(newTestStore(t))

	_, err := repo.GetByID(context.Background(), "nope")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestArticleRepository_ListOrderingAndVisibility(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewArticleRepository(store)
	ctx := context.Background()

	base := time.Now()
	for i, spec := range []struct {
		id     string
		public bool
	}{
		{"a1", true},
		{"a2", false},
		{"a3", true},
	} {
		article := sampleArticle(spec.id, base.Add(time.Duration(i)*time.Second))
		article.IsPublic = spec.public
		b := store.Batch()
		repo.CreateIn(b, article)
		require.NoError(t, b.Commit(ctx))
	}

	public, err := repo.List(ctx, 10, true)
	require.NoError(t, err)
	require.Len(t, public, 2)
	// Newest first.
	assert.Equal(t, "a3", public[0].ID)
	assert.Equal(t, "a1", public[1].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byAuthor, err := repo.ListByAuthor(ctx, "author-1", 2)
	require.NoError(t, err)
	assert.Len(t, byAuthor, 2)
}

func TestArticleRepository_UpdateVisibilityIndex(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewArticleRepository(store)
	ctx := context.Background()

	article := sampleArticle("a1", time.Now())
	b := store.Batch()
	repo.CreateIn(b, article)
	require.NoError(t, b.Commit(ctx))

	article.IsPublic = false
	b = store.Batch()
	repo.UpdateIn(b, article)
	require.NoError(t, b.Commit(ctx))

	public, err := repo.List(ctx, 10, true)
	require.NoError(t, err)
	assert.Empty(t, public)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestArticleRepository_DeleteRemovesIndexes(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewArticleRepository(store)
	ctx := context.Background()

	article := sampleArticle("a1", time.Now())
	b := store.Batch()
	repo.CreateIn(b, article)
	require.NoError(t, b.Commit(ctx))

	b = store.Batch()
	repo.DeleteIn(b, article)
	require.NoError(t, b.Commit(ctx))

	_, err := repo.GetByID(ctx, "a1")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	byAuthor, err := repo.ListByAuthor(ctx, "author-1", 0)
	require.NoError(t, err)
	assert.Empty(t, byAuthor)
}

func TestArticleRepository_UpdateKeepsConcurrentCounters(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewArticleRepository(store)
	ctx := context.Background()

	article := sampleArticle("a1", time.Now())
	b := store.Batch()
	repo.CreateIn(b, article)
	require.NoError(t, b.Commit(ctx))

	stale, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)

	// Counter increments land between the read and the update commit.
	b = store.Batch()
	repo.AdjustLikeCountIn(b, "a1", 1)
	repo.AdjustCommentCountIn(b, "a1", 2)
	require.NoError(t, b.Commit(ctx))
	require.NoError(t, repo.IncrementViewCount(ctx, "a1"))

	stale.Title = "edited"
	b = store.Batch()
	repo.UpdateIn(b, stale)
	require.NoError(t, b.Commit(ctx))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
	assert.Equal(t, int64(1), got.LikeCount)
	assert.Equal(t, int64(2), got.CommentCount)
	assert.Equal(t, int64(1), got.ViewCount)
}

func TestArticleRepository_Counters(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewArticleRepository(store)
	ctx := context.Background()

	article := sampleArticle("a1", time.Now())
	b := store.Batch()
	repo.CreateIn(b, article)
	require.NoError(t, b.Commit(ctx))

	b = store.Batch()
	repo.AdjustLikeCountIn(b, "a1", 2)
	repo.AdjustCommentCountIn(b, "a1", 1)
	require.NoError(t, b.Commit(ctx))
	require.NoError(t, repo.IncrementViewCount(ctx, "a1"))

	got, err := repo.GetByID(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.LikeCount)
	assert.Equal(t, int64(1), got.CommentCount)
	assert.Equal(t, int64(1), got.ViewCount)
}
