package repository

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

const keyTagsAll = "tags:all"

// TagRepository defines interface for tag operations
type TagRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Tag, error)
	Exists(ctx context.Context, slug string) (bool, error)
	ListAll(ctx context.Context) ([]*models.Tag, error)
	UpsertIn(b *docstore.Batch, name string, now time.Time)
	EnsureIn(b *docstore.Batch, name string, now time.Time)
	AdjustArticleCountIn(b *docstore.Batch, slug string, delta int64)
	SetArticleCountIn(b *docstore.Batch, slug string, count int64, now time.Time)
}

type tagRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewTagRepository creates a new TagRepository
func NewTagRepository(store *docstore.Store) TagRepository {
	return &tagRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.Tags),
	}
}

func tagFromFields(slug string, f docstore.Fields) *models.Tag {
	return &models.Tag{
		Slug:         slug,
		Name:         f.String("name"),
		ArticleCount: f.Int("articleCount"),
		CreatedAt:    f.Time("createdAt"),
		UpdatedAt:    f.Time("updatedAt"),
	}
}

func (r *tagRepository) GetBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	f, err := r.store.Get(ctx, docstore.Tags, slug)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.NewNotFoundError("Tag", slug)
		}
		r.log.LogError(ctx, err, "get")
		return nil, models.NewInternalError(err)
	}
	return tagFromFields(slug, f), nil
}

func (r *tagRepository) Exists(ctx context.Context, slug string) (bool, error) {
	ok, err := r.store.Exists(ctx, docstore.Tags, slug)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return ok, nil
}

func (r *tagRepository) ListAll(ctx context.Context) ([]*models.Tag, error) {
	slugs, err := r.store.Members(ctx, keyTagsAll)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	tags := make([]*models.Tag, 0, len(slugs))
	for _, slug := range slugs {
		f, err := r.store.Get(ctx, docstore.Tags, slug)
		if err != nil {
			if errors.Is(err, docstore.ErrNotFound) {
				continue
			}
			r.log.LogError(ctx, err, "list")
			return nil, models.NewInternalError(err)
		}
		tags = append(tags, tagFromFields(slug, f))
	}
	return tags, nil
}

// UpsertIn queues a merge-upsert for the named tag: metadata is written
// unconditionally, articleCount is incremented by one, and createdAt is set
// only on first appearance. Safe whether or not the tag already exists.
func (r *tagRepository) UpsertIn(b *docstore.Batch, name string, now time.Time) {
	slug := models.TagSlug(name)
	meta := docstore.NewFields().
		Set("name", name).
		SetTime("updatedAt", now)
	b.Update(docstore.Tags, slug, meta)
	b.SetNX(docstore.Tags, slug, "createdAt", now.UTC().Format(time.RFC3339Nano))
	b.Incr(docstore.Tags, slug, "articleCount", 1)
	b.SAdd(keyTagsAll, slug)
}

// EnsureIn queues the tag's metadata without touching its aggregate.
// Reconciliation uses this for tags that exist on articles but have no
// document yet.
func (r *tagRepository) EnsureIn(b *docstore.Batch, name string, now time.Time) {
	slug := models.TagSlug(name)
	b.SetNX(docstore.Tags, slug, "name", name)
	b.SetNX(docstore.Tags, slug, "createdAt", now.UTC().Format(time.RFC3339Nano))
	b.SAdd(keyTagsAll, slug)
}

func (r *tagRepository) AdjustArticleCountIn(b *docstore.Batch, slug string, delta int64) {
	b.Incr(docstore.Tags, slug, "articleCount", delta)
}

// SetArticleCountIn overwrites the tag's aggregate with a recomputed value.
// Reconciliation uses this; normal writes only ever adjust.
func (r *tagRepository) SetArticleCountIn(b *docstore.Batch, slug string, count int64, now time.Time) {
	b.Update(docstore.Tags, slug, docstore.NewFields().
		SetInt("articleCount", count).
		SetTime("updatedAt", now))
	b.SAdd(keyTagsAll, slug)
}
