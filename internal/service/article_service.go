package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// ArticleService sequences article lifecycle operations. Every multi-document
// write follows the same shape: read and validate everything first, queue all
// writes into one atomic batch, commit once.
type ArticleService struct {
	store        *docstore.Store
	articleRepo  repository.ArticleRepository
	commentRepo  repository.CommentRepository
	tagRepo      repository.TagRepository
	categoryRepo repository.CategoryRepository
	likeRepo     repository.LikeRepository
	userRepo     repository.UserRepository
}

type CreateArticleInput struct {
	AuthorID   string
	Title      string
	Content    string
	CategoryID string
	Tags       []string
	IsPublic   bool
}

type UpdateArticleInput struct {
	UserID     string
	ArticleID  string
	Title      string
	Content    string
	CategoryID string
	Tags       []string
	IsPublic   *bool
}

type ListArticlesInput struct {
	ViewerID   string
	Limit      int64
	Tag        string
	CategoryID string
	Search     string
}

func NewArticleService(
	store *docstore.Store,
	articleRepo repository.ArticleRepository,
	commentRepo repository.CommentRepository,
	tagRepo repository.TagRepository,
	categoryRepo repository.CategoryRepository,
	likeRepo repository.LikeRepository,
	userRepo repository.UserRepository,
) *ArticleService {
	return &ArticleService{
		store:        store,
		articleRepo:  articleRepo,
		commentRepo:  commentRepo,
		tagRepo:      tagRepo,
		categoryRepo: categoryRepo,
		likeRepo:     likeRepo,
		userRepo:     userRepo,
	}
}

func validateArticleContent(title, content string, tags []string, categoryID string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len([]rune(title)) > models.MaxArticleTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len([]rune(content)) > models.MaxArticleContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	if len(tags) > models.MaxArticleTags {
		return models.NewValidationError("Too many tags (max 5)")
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return models.NewValidationError("Tags must not be empty")
		}
	}
	if models.CategoryByID(categoryID) == nil {
		return models.NewValidationError("Unknown category: " + categoryID)
	}
	return nil
}

func (s *ArticleService) CreateArticle(ctx context.Context, in CreateArticleInput) (*models.Article, error) {
	author, err := s.userRepo.GetByID(ctx, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if !author.CanPublish() {
		return nil, models.NewUnauthorizedError("Complete your profile before posting")
	}
	if err := validateArticleContent(in.Title, in.Content, in.Tags, in.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	article := &models.Article{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Content:     in.Content,
		Excerpt:     models.GenerateExcerpt(in.Content),
		AuthorID:    in.AuthorID,
		AuthorName:  author.DisplayName,
		CategoryID:  in.CategoryID,
		Tags:        in.Tags,
		IsPublic:    in.IsPublic,
		ReadingTime: models.CalculateReadingTime(in.Content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.IsPublic {
		article.PublishedAt = now
	}

	b := s.store.Batch()
	s.articleRepo.CreateIn(b, article)
	for _, tag := range in.Tags {
		s.tagRepo.UpsertIn(b, tag, now)
	}
	s.categoryRepo.AdjustArticleCountIn(b, in.CategoryID, 1)
	s.userRepo.AdjustArticleCountIn(b, in.AuthorID, 1)
	if err := b.Commit(ctx); err != nil {
		return nil, models.NewWriteFailedError(err)
	}

	article.Author = &models.Author{DisplayName: author.DisplayName, AvatarURL: author.AvatarURL}
	return article, nil
}

// tagDiff returns the slugged set difference a - b, keyed by slug with the
// original tag name as value.
func tagDiff(a, b []string) map[string]string {
	in := make(map[string]bool, len(b))
	for _, tag := range b {
		in[models.TagSlug(tag)] = true
	}
	out := make(map[string]string)
	for _, tag := range a {
		slug := models.TagSlug(tag)
		if !in[slug] {
			out[slug] = tag
		}
	}
	return out
}

func (s *ArticleService) UpdateArticle(ctx context.Context, in UpdateArticleInput) (*models.Article, error) {
	old, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if old.AuthorID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own articles")
	}

	updated := *old
	if in.Title != "" {
		updated.Title = in.Title
	}
	if in.Content != "" {
		updated.Content = in.Content
		updated.Excerpt = models.GenerateExcerpt(in.Content)
		updated.ReadingTime = models.CalculateReadingTime(in.Content)
	}
	if in.CategoryID != "" {
		updated.CategoryID = in.CategoryID
	}
	if in.Tags != nil {
		updated.Tags = in.Tags
	}
	if in.IsPublic != nil {
		updated.IsPublic = *in.IsPublic
	}
	if err := validateArticleContent(updated.Title, updated.Content, updated.Tags, updated.CategoryID); err != nil {
		return nil, err
	}

	now := time.Now()
	updated.UpdatedAt = now
	if !old.IsPublic && updated.IsPublic && updated.PublishedAt.IsZero() {
		updated.PublishedAt = now
	}

	b := s.store.Batch()
	s.articleRepo.UpdateIn(b, &updated)
	if err := s.queueTagTransitions(ctx, b, old, &updated, now); err != nil {
		return nil, err
	}
	if err := s.queueCategoryTransition(ctx, b, old, &updated); err != nil {
		return nil, err
	}
	if err := b.Commit(ctx); err != nil {
		return nil, models.NewWriteFailedError(err)
	}
	return &updated, nil
}

// queueTagTransitions adjusts tag aggregates for a visibility or tag-set
// change. Only public articles count toward tag aggregates, so the deltas
// depend on the visibility transition:
//
//	public -> public: removed tags -1, added tags +1
//	public -> draft:  all old tags -1
//	draft  -> public: all new tags +1
//	draft  -> draft:  nothing
//
// Decrements are gated on the tag document existing right now; a missing
// document means there is nothing to decrement and reconciliation owns the
// repair.
func (s *ArticleService) queueTagTransitions(ctx context.Context, b *docstore.Batch, old, updated *models.Article, now time.Time) error {
	decrement := func(slugs map[string]string) error {
		for slug := range slugs {
			ok, err := s.tagRepo.Exists(ctx, slug)
			if err != nil {
				return err
			}
			if ok {
				s.tagRepo.AdjustArticleCountIn(b, slug, -1)
			}
		}
		return nil
	}

	switch {
	case old.IsPublic && updated.IsPublic:
		if err := decrement(tagDiff(old.Tags, updated.Tags)); err != nil {
			return err
		}
		for _, name := range tagDiff(updated.Tags, old.Tags) {
			s.tagRepo.UpsertIn(b, name, now)
		}
	case old.IsPublic && !updated.IsPublic:
		if err := decrement(tagDiff(old.Tags, nil)); err != nil {
			return err
		}
	case !old.IsPublic && updated.IsPublic:
		for _, name := range updated.Tags {
			s.tagRepo.UpsertIn(b, name, now)
		}
	}
	return nil
}

func (s *ArticleService) queueCategoryTransition(ctx context.Context, b *docstore.Batch, old, updated *models.Article) error {
	changed := old.CategoryID != updated.CategoryID
	if old.CategoryID != "" && old.IsPublic && (changed || !updated.IsPublic) {
		ok, err := s.categoryRepo.Exists(ctx, old.CategoryID)
		if err != nil {
			return err
		}
		if ok {
			s.categoryRepo.AdjustArticleCountIn(b, old.CategoryID, -1)
		}
	}
	if updated.CategoryID != "" && updated.IsPublic && (changed || !old.IsPublic) {
		s.categoryRepo.AdjustArticleCountIn(b, updated.CategoryID, 1)
	}
	return nil
}

// DeleteArticle removes an article together with its comments, its likes and
// the aggregate entries it contributed to. All dependents are enumerated
// up front; the deletion itself is a single atomic batch.
func (s *ArticleService) DeleteArticle(ctx context.Context, userID, articleID string) error {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	if article.AuthorID != userID {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user.Role != models.RoleAdmin {
			return models.NewUnauthorizedError("You can only delete your own articles")
		}
	}

	comments, err := s.commentRepo.ListByArticle(ctx, articleID)
	if err != nil {
		return err
	}
	likeIDs, err := s.likeRepo.IDsByArticle(ctx, articleID)
	if err != nil {
		return err
	}

	b := s.store.Batch()
	for _, comment := range comments {
		s.commentRepo.DeleteIn(b, comment)
	}
	for _, id := range likeIDs {
		s.likeRepo.DeleteByIDIn(b, id, articleID)
	}
	for _, tag := range article.Tags {
		slug := models.TagSlug(tag)
		ok, err := s.tagRepo.Exists(ctx, slug)
		if err != nil {
			return err
		}
		if ok {
			s.tagRepo.AdjustArticleCountIn(b, slug, -1)
		}
	}
	if article.CategoryID != "" {
		ok, err := s.categoryRepo.Exists(ctx, article.CategoryID)
		if err != nil {
			return err
		}
		if ok {
			s.categoryRepo.AdjustArticleCountIn(b, article.CategoryID, -1)
		}
	}
	s.userRepo.AdjustArticleCountIn(b, article.AuthorID, -1)
	s.articleRepo.DeleteIn(b, article)

	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}

func (s *ArticleService) GetArticle(ctx context.Context, articleID, viewerID string) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !article.IsPublic && article.AuthorID != viewerID {
		return nil, models.NewNotFoundError("Article", articleID)
	}
	s.decorate(ctx, article, viewerID)
	return article, nil
}

func (s *ArticleService) decorate(ctx context.Context, article *models.Article, viewerID string) {
	article.Author = enrichAuthor(ctx, s.userRepo, article.AuthorID, article.AuthorName)
	if viewerID != "" {
		liked, err := s.likeRepo.Exists(ctx, viewerID, article.ID)
		if err == nil {
			article.Liked = liked
		}
	}
}

func matchesFilter(article *models.Article, in ListArticlesInput) bool {
	if in.CategoryID != "" && article.CategoryID != in.CategoryID {
		return false
	}
	if in.Tag != "" {
		slug := models.TagSlug(in.Tag)
		found := false
		for _, tag := range article.Tags {
			if models.TagSlug(tag) == slug {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if in.Search != "" {
		needle := strings.ToLower(in.Search)
		if !strings.Contains(strings.ToLower(article.Title), needle) &&
			!strings.Contains(strings.ToLower(article.Excerpt), needle) {
			return false
		}
	}
	return true
}

func (s *ArticleService) ListArticles(ctx context.Context, in ListArticlesInput) ([]*models.Article, error) {
	// Filters apply after the indexed fetch; over-fetch when filtering so a
	// sparse filter still fills the page.
	fetchLimit := in.Limit
	if in.Tag != "" || in.CategoryID != "" || in.Search != "" {
		fetchLimit = 0
	}
	articles, err := s.articleRepo.List(ctx, fetchLimit, true)
	if err != nil {
		return nil, err
	}

	out := make([]*models.Article, 0, len(articles))
	for _, article := range articles {
		if !matchesFilter(article, in) {
			continue
		}
		s.decorate(ctx, article, in.ViewerID)
		out = append(out, article)
		if in.Limit > 0 && int64(len(out)) >= in.Limit {
			break
		}
	}
	return out, nil
}

// ListByAuthor returns an author's articles. Drafts are visible only to the
// author themselves.
func (s *ArticleService) ListByAuthor(ctx context.Context, authorID, viewerID string, limit int64) ([]*models.Article, error) {
	articles, err := s.articleRepo.ListByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Article, 0, len(articles))
	for _, article := range articles {
		if !article.IsPublic && authorID != viewerID {
			continue
		}
		s.decorate(ctx, article, viewerID)
		out = append(out, article)
	}
	return out, nil
}

// LikeArticle records a like. Liking an already-liked article is a no-op, so
// retried requests cannot inflate the aggregate.
func (s *ArticleService) LikeArticle(ctx context.Context, userID, articleID string) error {
	article, err := s.articleRepo.GetByID(ctx, articleID)
	if err != nil {
		return err
	}
	exists, err := s.likeRepo.Exists(ctx, userID, articleID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	b := s.store.Batch()
	s.likeRepo.CreateIn(b, &models.Like{
		ID:        models.LikeID(userID, articleID),
		UserID:    userID,
		ArticleID: article.ID,
		CreatedAt: time.Now(),
	})
	s.articleRepo.AdjustLikeCountIn(b, articleID, 1)
	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}

// UnlikeArticle removes a like. Unliking an article that was never liked is
// a no-op; the decrement only happens when the like document existed.
func (s *ArticleService) UnlikeArticle(ctx context.Context, userID, articleID string) error {
	exists, err := s.likeRepo.Exists(ctx, userID, articleID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	b := s.store.Batch()
	s.likeRepo.DeleteIn(b, userID, articleID)
	s.articleRepo.AdjustLikeCountIn(b, articleID, -1)
	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}

// RecordView bumps the article's view aggregate. Views skip the batch path:
// a single store-atomic increment on one document.
func (s *ArticleService) RecordView(ctx context.Context, articleID string) error {
	if _, err := s.articleRepo.GetByID(ctx, articleID); err != nil {
		return err
	}
	return s.articleRepo.IncrementViewCount(ctx, articleID)
}
