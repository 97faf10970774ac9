package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

// CategoryRepository defines interface for category operations. Category
// metadata is fixed; only the article aggregate lives in the store.
type CategoryRepository interface {
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Exists(ctx context.Context, id string) (bool, error)
	ListAll(ctx context.Context) ([]*models.Category, error)
	Seed(ctx context.Context) error
	AdjustArticleCountIn(b *docstore.Batch, id string, delta int64)
	SetArticleCountIn(b *docstore.Batch, id string, count int64, now time.Time)
}

type categoryRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(store *docstore.Store) CategoryRepository {
	return &categoryRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.Categories),
	}
}

func categoryFields(c *models.Category) docstore.Fields {
	return docstore.NewFields().
		Set("name", c.Name).
		Set("color", c.Color).
		SetInt("sortOrder", int64(c.SortOrder)).
		SetTime("updatedAt", c.UpdatedAt)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	meta := models.CategoryByID(id)
	if meta == nil {
		return nil, models.NewNotFoundError("Category", id)
	}
	f, err := r.store.Get(ctx, docstore.Categories, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.NewNotFoundError("Category", id)
		}
		r.log.LogError(ctx, err, "get")
		return nil, models.NewInternalError(err)
	}
	c := *meta
	c.ArticleCount = f.Int("articleCount")
	c.CreatedAt = f.Time("createdAt")
	c.UpdatedAt = f.Time("updatedAt")
	return &c, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	ok, err := r.store.Exists(ctx, docstore.Categories, id)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return ok, nil
}

func (r *categoryRepository) ListAll(ctx context.Context) ([]*models.Category, error) {
	categories := models.Categories()
	out := make([]*models.Category, 0, len(categories))
	for i := range categories {
		c := categories[i]
		f, err := r.store.Get(ctx, docstore.Categories, c.ID)
		if err != nil && !errors.Is(err, docstore.ErrNotFound) {
			r.log.LogError(ctx, err, "list")
			return nil, models.NewInternalError(err)
		}
		if err == nil {
			c.ArticleCount = f.Int("articleCount")
			c.CreatedAt = f.Time("createdAt")
			c.UpdatedAt = f.Time("updatedAt")
		}
		out = append(out, &c)
	}
	return out, nil
}

// Seed writes the fixed category set into the store. Metadata is overwritten,
// aggregates and creation times survive repeated runs.
func (r *categoryRepository) Seed(ctx context.Context) error {
	now := time.Now()
	b := r.store.Batch()
	for _, c := range models.Categories() {
		c.UpdatedAt = now
		b.Update(docstore.Categories, c.ID, categoryFields(&c))
		b.SetNX(docstore.Categories, c.ID, "createdAt", now.UTC().Format(time.RFC3339Nano))
		b.SetNX(docstore.Categories, c.ID, "articleCount", "0")
	}
	if err := b.Commit(ctx); err != nil {
		r.log.LogError(ctx, err, "seed")
		return models.NewWriteFailedError(err)
	}
	return nil
}

func (r *categoryRepository) AdjustArticleCountIn(b *docstore.Batch, id string, delta int64) {
	b.Incr(docstore.Categories, id, "articleCount", delta)
}

// SetArticleCountIn overwrites the category's aggregate with a recomputed
// value. Reconciliation uses this; normal writes only ever adjust.
func (r *categoryRepository) SetArticleCountIn(b *docstore.Batch, id string, count int64, now time.Time) {
	b.Update(docstore.Categories, id, docstore.NewFields().
		SetInt("articleCount", count).
		SetTime("updatedAt", now))
}
