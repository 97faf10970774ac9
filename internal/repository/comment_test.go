package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func sampleComment(id, articleID, parentID string, createdAt time.Time) *models.Comment {
	return &models.Comment{
		ID:         id,
		ArticleID:  articleID,
		Content:    "content " + id,
		AuthorID:   "author-1",
		AuthorName: "alice",
		ParentID:   parentID,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestCommentRepository_RoundTripAndListing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewCommentRepository(store)
	ctx := context.Background()

	base := time.Now()
	top := sampleComment("c1", "a1", "", base)
	reply := sampleComment("c2", "a1", "c1", base.Add(time.Second))
	reply.Depth = 1

	b := store.Batch()
	repo.CreateIn(b, top)
	repo.CreateIn(b, reply)
	require.NoError(t, b.Commit(ctx))

	got, err := repo.GetByID(ctx, "c2")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ParentID)
	assert.Equal(t, 1, got.Depth)

	topLevel, err := repo.ListTop(ctx, "a1", 0)
	require.NoError(t, err)
	require.Len(t, topLevel, 1)
	assert.Equal(t, "c1", topLevel[0].ID)

	replies, err := repo.ListReplies(ctx, "c1", 0)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	assert.Equal(t, "c2", replies[0].ID)

	all, err := repo.ListByArticle(ctx, "a1")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCommentRepository_UpdateKeepsConcurrentCounters(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewCommentRepository(store)
	ctx := context.Background()

	comment := sampleComment("c1", "a1", "", time.Now())
	b := store.Batch()
	repo.CreateIn(b, comment)
	require.NoError(t, b.Commit(ctx))

	stale, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)

	// A reply and a like land between the read and the update commit.
	b = store.Batch()
	repo.AdjustChildCountIn(b, "c1", 1)
	repo.AdjustLikeCountIn(b, "c1", 1)
	require.NoError(t, b.Commit(ctx))

	stale.Content = "edited"
	stale.IsEdited = true
	b = store.Batch()
	repo.UpdateIn(b, stale)
	require.NoError(t, b.Commit(ctx))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)
	assert.True(t, got.IsEdited)
	assert.Equal(t, int64(1), got.ChildCount)
	assert.Equal(t, int64(1), got.LikeCount)

	// Removing that reply now lands the counter back on zero, not below it.
	b = store.Batch()
	repo.AdjustChildCountIn(b, "c1", -1)
	require.NoError(t, b.Commit(ctx))

	got, err = repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.ChildCount)
}

func TestCommentRepository_ZeroLikeCount(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	repo := NewCommentRepository(store)
	ctx := context.Background()

	comment := sampleComment("c1", "a1", "", time.Now())
	b := store.Batch()
	repo.CreateIn(b, comment)
	repo.AdjustLikeCountIn(b, "c1", 3)
	require.NoError(t, b.Commit(ctx))

	b = store.Batch()
	repo.ZeroLikeCountIn(b, "c1")
	require.NoError(t, b.Commit(ctx))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LikeCount)
	assert.Equal(t, "content c1", got.Content)
}
