package service

import (
	"context"
	"time"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

// ReconcileService recomputes derived aggregates from primary records.
// Incremental counter maintenance can drift after partial failures or code
// bugs; reconciliation walks every article and overwrites each tag and
// category aggregate with the recomputed truth in one atomic batch per
// aggregate kind. It is safe to run at any time, concurrently with writes.
type ReconcileService struct {
	store        *docstore.Store
	articleRepo  repository.ArticleRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
}

// ReconcileReport summarizes one reconciliation pass.
type ReconcileReport struct {
	Aggregate    string `json:"aggregate"`
	Checked      int    `json:"checked"`
	Repaired     int    `json:"repaired"`
	TotalDrift   int64  `json:"total_drift"`
	DurationMsec int64  `json:"duration_msec"`
}

func NewReconcileService(
	store *docstore.Store,
	articleRepo repository.ArticleRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
) *ReconcileService {
	return &ReconcileService{
		store:        store,
		articleRepo:  articleRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
	}
}

// Run executes both reconciliation passes.
func (s *ReconcileService) Run(ctx context.Context) ([]*ReconcileReport, error) {
	tags, err := s.RecomputeTagCounts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.RecomputeCategoryCounts(ctx)
	if err != nil {
		return nil, err
	}
	return []*ReconcileReport{tags, categories}, nil
}

// publicTagTally counts public articles per tag slug, remembering one
// display name per slug for tags that have no document yet.
func publicTagTally(articles []*models.Article) (map[string]int64, map[string]string) {
	counts := make(map[string]int64)
	names := make(map[string]string)
	for _, article := range articles {
		if !article.IsPublic {
			continue
		}
		for _, tag := range article.Tags {
			slug := models.TagSlug(tag)
			counts[slug]++
			if _, ok := names[slug]; !ok {
				names[slug] = tag
			}
		}
	}
	return counts, names
}

// RecomputeTagCounts overwrites every tag's article aggregate with the count
// of public articles currently carrying that tag. Tags no longer used keep
// their document with a zero count.
func (s *ReconcileService) RecomputeTagCounts(ctx context.Context) (*ReconcileReport, error) {
	start := time.Now()

	articles, err := s.articleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts, names := publicTagTally(articles)

	existing, err := s.tagRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	previous := make(map[string]int64, len(existing))
	for _, tag := range existing {
		previous[tag.Slug] = tag.ArticleCount
	}
	for slug := range counts {
		if _, ok := previous[slug]; !ok {
			previous[slug] = 0
		}
	}

	now := time.Now()
	report := &ReconcileReport{Aggregate: "tags", Checked: len(previous)}
	b := s.store.Batch()
	for slug, before := range previous {
		want := counts[slug]
		if name, ok := names[slug]; ok {
			s.tagRepo.EnsureIn(b, name, now)
		}
		s.tagRepo.SetArticleCountIn(b, slug, want, now)
		if drift := abs64(want - before); drift > 0 {
			report.Repaired++
			report.TotalDrift += drift
		}
	}
	if err := b.Commit(ctx); err != nil {
		return nil, models.NewWriteFailedError(err)
	}

	report.DurationMsec = time.Since(start).Milliseconds()
	observability.ReconciliationRuns.WithLabelValues("tags").Inc()
	observability.ReconciliationDrift.WithLabelValues("tags").Observe(float64(report.TotalDrift))
	return report, nil
}

// RecomputeCategoryCounts overwrites every category's article aggregate with
// the count of public articles currently in it.
func (s *ReconcileService) RecomputeCategoryCounts(ctx context.Context) (*ReconcileReport, error) {
	start := time.Now()

	articles, err := s.articleRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, article := range articles {
		if article.IsPublic && article.CategoryID != "" {
			counts[article.CategoryID]++
		}
	}

	existing, err := s.categoryRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	report := &ReconcileReport{Aggregate: "categories", Checked: len(existing)}
	b := s.store.Batch()
	for _, category := range existing {
		want := counts[category.ID]
		s.categoryRepo.SetArticleCountIn(b, category.ID, want, now)
		if drift := abs64(want - category.ArticleCount); drift > 0 {
			report.Repaired++
			report.TotalDrift += drift
		}
	}
	if err := b.Commit(ctx); err != nil {
		return nil, models.NewWriteFailedError(err)
	}

	report.DurationMsec = time.Since(start).Milliseconds()
	observability.ReconciliationRuns.WithLabelValues("categories").Inc()
	observability.ReconciliationDrift.WithLabelValues("categories").Observe(float64(report.TotalDrift))
	return report, nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
