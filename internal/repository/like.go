package repository

import (
	"context"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

func likesByArticleKey(articleID string) string {
	return "likes:by_article:" + articleID
}

func commentLikesByCommentKey(commentID string) string {
	return "comment_likes:by_comment:" + commentID
}

// LikeRepository defines interface for article like operations
type LikeRepository interface {
	Exists(ctx context.Context, userID, articleID string) (bool, error)
	IDsByArticle(ctx context.Context, articleID string) ([]string, error)
	CreateIn(b *docstore.Batch, like *models.Like)
	DeleteIn(b *docstore.Batch, userID, articleID string)
	DeleteByIDIn(b *docstore.Batch, id, articleID string)
}

type likeRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(store *docstore.Store) LikeRepository {
	return &likeRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.Likes),
	}
}

func (r *likeRepository) Exists(ctx context.Context, userID, articleID string) (bool, error) {
	ok, err := r.store.Exists(ctx, docstore.Likes, models.LikeID(userID, articleID))
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return ok, nil
}

func (r *likeRepository) IDsByArticle(ctx context.Context, articleID string) ([]string, error) {
	ids, err := r.store.Members(ctx, likesByArticleKey(articleID))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *likeRepository) CreateIn(b *docstore.Batch, like *models.Like) {
	b.Set(docstore.Likes, like.ID, docstore.NewFields().
		Set("userId", like.UserID).
		Set("articleId", like.ArticleID).
		SetTime("createdAt", like.CreatedAt))
	b.SAdd(likesByArticleKey(like.ArticleID), like.ID)
}

func (r *likeRepository) DeleteIn(b *docstore.Batch, userID, articleID string) {
	r.DeleteByIDIn(b, models.LikeID(userID, articleID), articleID)
}

// DeleteByIDIn removes a like by its composite id. Cascade deletion already
// holds the ids and has no per-like user context.
func (r *likeRepository) DeleteByIDIn(b *docstore.Batch, id, articleID string) {
	b.Delete(docstore.Likes, id)
	b.SRem(likesByArticleKey(articleID), id)
}

// CommentLikeRepository defines interface for comment like operations
type CommentLikeRepository interface {
	Exists(ctx context.Context, userID, commentID string) (bool, error)
	IDsByComment(ctx context.Context, commentID string) ([]string, error)
	CreateIn(b *docstore.Batch, like *models.CommentLike)
	DeleteIn(b *docstore.Batch, userID, commentID string)
	DeleteByIDIn(b *docstore.Batch, id, commentID string)
}

type commentLikeRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewCommentLikeRepository creates a new CommentLikeRepository
func NewCommentLikeRepository(store *docstore.Store) CommentLikeRepository {
	return &commentLikeRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.CommentLikes),
	}
}

func (r *commentLikeRepository) Exists(ctx context.Context, userID, commentID string) (bool, error) {
	ok, err := r.store.Exists(ctx, docstore.CommentLikes, models.CommentLikeID(userID, commentID))
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return ok, nil
}

func (r *commentLikeRepository) IDsByComment(ctx context.Context, commentID string) ([]string, error) {
	ids, err := r.store.Members(ctx, commentLikesByCommentKey(commentID))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *commentLikeRepository) CreateIn(b *docstore.Batch, like *models.CommentLike) {
	b.Set(docstore.CommentLikes, like.ID, docstore.NewFields().
		Set("userId", like.UserID).
		Set("commentId", like.CommentID).
		SetTime("createdAt", like.CreatedAt))
	b.SAdd(commentLikesByCommentKey(like.CommentID), like.ID)
}

func (r *commentLikeRepository) DeleteIn(b *docstore.Batch, userID, commentID string) {
	r.DeleteByIDIn(b, models.CommentLikeID(userID, commentID), commentID)
}

func (r *commentLikeRepository) DeleteByIDIn(b *docstore.Batch, id, commentID string) {
	b.Delete(docstore.CommentLikes, id)
	b.SRem(commentLikesByCommentKey(commentID), id)
}
