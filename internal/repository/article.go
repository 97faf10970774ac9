// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

// Article index keys. Indexes are maintained inside the same batch as the
// documents they track so they cannot drift from committed state.
const (
	keyArticlesByCreated = "articles:by_created"
	keyArticlesPublic    = "articles:public"
)

func articlesByAuthorKey(uid string) string {
	return "articles:by_author:" + uid
}

// ArticleRepository defines interface for article operations
type ArticleRepository interface {
	GetByID(ctx context.Context, id string) (*models.Article, error)
	List(ctx context.Context, limit int64, publicOnly bool) ([]*models.Article, error)
	ListByAuthor(ctx context.Context, authorID string, limit int64) ([]*models.Article, error)
	ListAll(ctx context.Context) ([]*models.Article, error)
	CreateIn(b *docstore.Batch, article *models.Article)
	UpdateIn(b *docstore.Batch, article *models.Article)
	DeleteIn(b *docstore.Batch, article *models.Article)
	AdjustLikeCountIn(b *docstore.Batch, id string, delta int64)
	AdjustCommentCountIn(b *docstore.Batch, id string, delta int64)
	IncrementViewCount(ctx context.Context, id string) error
}

type articleRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(store *docstore.Store) ArticleRepository {
	return &articleRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.Articles),
	}
}

func articleFields(a *models.Article) docstore.Fields {
	return docstore.NewFields().
		Set("title", a.Title).
		Set("content", a.Content).
		Set("excerpt", a.Excerpt).
		Set("authorId", a.AuthorID).
		Set("authorName", a.AuthorName).
		Set("categoryId", a.CategoryID).
		SetStrings("tags", a.Tags).
		SetBool("isPublic", a.IsPublic).
		SetInt("readingTime", int64(a.ReadingTime)).
		SetInt("viewCount", a.ViewCount).
		SetInt("likeCount", a.LikeCount).
		SetInt("commentCount", a.CommentCount).
		SetTime("createdAt", a.CreatedAt).
		SetTime("updatedAt", a.UpdatedAt).
		SetTime("publishedAt", a.PublishedAt)
}

func articleFromFields(id string, f docstore.Fields) *models.Article {
	return &models.Article{
		ID:           id,
		Title:        f.String("title"),
		Content:      f.String("content"),
		Excerpt:      f.String("excerpt"),
		AuthorID:     f.String("authorId"),
		AuthorName:   f.String("authorName"),
		CategoryID:   f.String("categoryId"),
		Tags:         f.Strings("tags"),
		IsPublic:     f.Bool("isPublic"),
		ReadingTime:  int(f.Int("readingTime")),
		ViewCount:    f.Int("viewCount"),
		LikeCount:    f.Int("likeCount"),
		CommentCount: f.Int("commentCount"),
		CreatedAt:    f.Time("createdAt"),
		UpdatedAt:    f.Time("updatedAt"),
		PublishedAt:  f.Time("publishedAt"),
	}
}

func (r *articleRepository) GetByID(ctx context.Context, id string) (*models.Article, error) {
	f, err := r.store.Get(ctx, docstore.Articles, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.NewNotFoundError("Article", id)
		}
		r.log.LogError(ctx, err, "get")
		return nil, models.NewInternalError(err)
	}
	return articleFromFields(id, f), nil
}

func (r *articleRepository) fetchMany(ctx context.Context, ids []string) ([]*models.Article, error) {
	articles := make([]*models.Article, 0, len(ids))
	for _, id := range ids {
		f, err := r.store.Get(ctx, docstore.Articles, id)
		if err != nil {
			// An index member may reference a document deleted by a
			// concurrent batch; skip it rather than failing the page.
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			r.log.LogError(ctx, err, "list")
			return nil, models.NewInternalError(err)
		}
		articles = append(articles, articleFromFields(id, f))
	}
	return articles, nil
}

func (r *articleRepository) List(ctx context.Context, limit int64, publicOnly bool) ([]*models.Article, error) {
	key := keyArticlesByCreated
	if publicOnly {
		key = keyArticlesPublic
	}
	ids, err := r.store.RangeDesc(ctx, key, limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.fetchMany(ctx, ids)
}

func (r *articleRepository) ListByAuthor(ctx context.Context, authorID string, limit int64) ([]*models.Article, error) {
	ids, err := r.store.RangeDesc(ctx, articlesByAuthorKey(authorID), limit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.fetchMany(ctx, ids)
}

// ListAll returns every article regardless of visibility. Used by the
// reconciliation job, which recomputes aggregates from primary records.
func (r *articleRepository) ListAll(ctx context.Context) ([]*models.Article, error) {
	ids, err := r.store.RangeAsc(ctx, keyArticlesByCreated, 0)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return r.fetchMany(ctx, ids)
}

func (r *articleRepository) CreateIn(b *docstore.Batch, article *models.Article) {
	score := float64(article.CreatedAt.UnixNano())
	b.Set(docstore.Articles, article.ID, articleFields(article))
	b.ZAdd(keyArticlesByCreated, score, article.ID)
	b.ZAdd(articlesByAuthorKey(article.AuthorID), score, article.ID)
	if article.IsPublic {
		b.ZAdd(keyArticlesPublic, score, article.ID)
	}
}

// UpdateIn rewrites the article's content fields. The counter fields are
// stripped from the write: aggregates move only through Adjust*/Incr ops, and
// writing back values captured by an earlier read would overwrite increments
// committed since that read.
func (r *articleRepository) UpdateIn(b *docstore.Batch, article *models.Article) {
	f := articleFields(article)
	delete(f, "viewCount")
	delete(f, "likeCount")
	delete(f, "commentCount")
	b.Update(docstore.Articles, article.ID, f)
	if article.IsPublic {
		b.ZAdd(keyArticlesPublic, float64(article.CreatedAt.UnixNano()), article.ID)
	} else {
		b.ZRem(keyArticlesPublic, article.ID)
	}
}

func (r *articleRepository) DeleteIn(b *docstore.Batch, article *models.Article) {
	b.Delete(docstore.Articles, article.ID)
	b.ZRem(keyArticlesByCreated, article.ID)
	b.ZRem(keyArticlesPublic, article.ID)
	b.ZRem(articlesByAuthorKey(article.AuthorID), article.ID)
}

func (r *articleRepository) AdjustLikeCountIn(b *docstore.Batch, id string, delta int64) {
	b.Incr(docstore.Articles, id, "likeCount", delta)
}

func (r *articleRepository) AdjustCommentCountIn(b *docstore.Batch, id string, delta int64) {
	b.Incr(docstore.Articles, id, "commentCount", delta)
}

// IncrementViewCount applies a store-atomic viewCount increment outside any
// batch; views touch exactly one aggregate on one document.
func (r *articleRepository) IncrementViewCount(ctx context.Context, id string) error {
	if err := r.store.IncrField(ctx, docstore.Articles, id, "viewCount", 1); err != nil {
		r.log.LogError(ctx, err, "incr_view")
		return models.NewInternalError(err)
	}
	return nil
}
