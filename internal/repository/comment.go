package repository

import (
	"context"
	"errors"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

func commentsByArticleKey(articleID string) string {
	return "comments:by_article:" + articleID
}

func commentsTopKey(articleID string) string {
	return "comments:top:" + articleID
}

func commentsRepliesKey(parentID string) string {
	return "comments:replies:" + parentID
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error)
	ListTop(ctx context.Context, articleID string, limit int64) ([]*models.Comment, error)
	ListReplies(ctx context.Context, parentID string, limit int64) ([]*models.Comment, error)
	CreateIn(b *docstore.Batch, comment *models.Comment)
	UpdateIn(b *docstore.Batch, comment *models.Comment)
	ZeroLikeCountIn(b *docstore.Batch, id string)
	DeleteIn(b *docstore.Batch, comment *models.Comment)
	AdjustChildCountIn(b *docstore.Batch, id string, delta int64)
	AdjustLikeCountIn(b *docstore.Batch, id string, delta int64)
}

type commentRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(store *docstore.Store) CommentRepository {
	return &commentRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.Comments),
	}
}

func commentFields(c *models.Comment) docstore.Fields {
	return docstore.NewFields().
		Set("articleId", c.ArticleID).
		Set("content", c.Content).
		Set("authorId", c.AuthorID).
		Set("authorName", c.AuthorName).
		Set("parentId", c.ParentID).
		SetInt("depth", int64(c.Depth)).
		SetInt("childCount", c.ChildCount).
		SetInt("likeCount", c.LikeCount).
		SetBool("isDeleted", c.IsDeleted).
		SetBool("isEdited", c.IsEdited).
		SetTime("createdAt", c.CreatedAt).
		SetTime("updatedAt", c.UpdatedAt)
}

func commentFromFields(id string, f docstore.Fields) *models.Comment {
	return &models.Comment{
		ID:         id,
		ArticleID:  f.String("articleId"),
		Content:    f.String("content"),
		AuthorID:   f.String("authorId"),
		AuthorName: f.String("authorName"),
		ParentID:   f.String("parentId"),
		Depth:      int(f.Int("depth")),
		ChildCount: f.Int("childCount"),
		LikeCount:  f.Int("likeCount"),
		IsDeleted:  f.Bool("isDeleted"),
		IsEdited:   f.Bool("isEdited"),
		CreatedAt:  f.Time("createdAt"),
		UpdatedAt:  f.Time("updatedAt"),
	}
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	f, err := r.store.Get(ctx, docstore.Comments, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		r.log.LogError(ctx, err, "get")
		return nil, models.NewInternalError(err)
	}
	return commentFromFields(id, f), nil
}

func (r *commentRepository) fetchMany(ctx context.Context, ids []string) ([]*models.Comment, error) {
	comments := make([]*models.Comment, 0, len(ids))
	for _, id := range ids {
		f, err := r.store.Get(ctx, docstore.Comments, id)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			r.log.LogError(ctx, err, "list")
			return nil, models.NewInternalError(err)
		}
		comments = append(comments, commentFromFields(id, f))
	}
	return comments, nil
}

// ListByArticle returns every comment on the article in no particular order.
// Cascade deletion uses this to enumerate dependents before batching.
func (r *commentRepository) ListByArticle(ctx context.Context, articleID string) ([]*models.Comment, error) {
	ids, err := r.store.Members(ctx, commentsByArticleKey(articleID))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.fetchMany(ctx, ids)
}

func (r *commentRepository) ListTop(ctx context.Context, articleID string, limit int64) ([]*models.Comment, error) {
	ids, err := r.store.RangeAsc(ctx, commentsTopKey(articleID), limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.fetchMany(ctx, ids)
}

func (r *commentRepository) ListReplies(ctx context.Context, parentID string, limit int64) ([]*models.Comment, error) {
	ids, err := r.store.RangeAsc(ctx, commentsRepliesKey(parentID), limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.fetchMany(ctx, ids)
}

func (r *commentRepository) CreateIn(b *docstore.Batch, comment *models.Comment) {
	score := float64(comment.CreatedAt.UnixNano())
	b.Set(docstore.Comments, comment.ID, commentFields(comment))
	b.SAdd(commentsByArticleKey(comment.ArticleID), comment.ID)
	if comment.ParentID == "" {
		b.ZAdd(commentsTopKey(comment.ArticleID), score, comment.ID)
	} else {
		b.ZAdd(commentsRepliesKey(comment.ParentID), score, comment.ID)
	}
}

// UpdateIn rewrites the comment's content fields. The counter fields are
// stripped from the write so a stale read can never roll back childCount or
// likeCount increments committed since that read.
func (r *commentRepository) UpdateIn(b *docstore.Batch, comment *models.Comment) {
	f := commentFields(comment)
	delete(f, "childCount")
	delete(f, "likeCount")
	b.Update(docstore.Comments, comment.ID, f)
}

// ZeroLikeCountIn overwrites the comment's like aggregate. Only soft deletion
// uses this, where the like records themselves are removed in the same batch.
func (r *commentRepository) ZeroLikeCountIn(b *docstore.Batch, id string) {
	b.Update(docstore.Comments, id, docstore.NewFields().SetInt("likeCount", 0))
}

func (r *commentRepository) DeleteIn(b *docstore.Batch, comment *models.Comment) {
	b.Delete(docstore.Comments, comment.ID)
	b.SRem(commentsByArticleKey(comment.ArticleID), comment.ID)
	if comment.ParentID == "" {
		b.ZRem(commentsTopKey(comment.ArticleID), comment.ID)
	} else {
		b.ZRem(commentsRepliesKey(comment.ParentID), comment.ID)
	}
}

func (r *commentRepository) AdjustChildCountIn(b *docstore.Batch, id string, delta int64) {
	b.Incr(docstore.Comments, id, "childCount", delta)
}

func (r *commentRepository) AdjustLikeCountIn(b *docstore.Batch, id string, delta int64) {
	b.Incr(docstore.Comments, id, "likeCount", delta)
}
