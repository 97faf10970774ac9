package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// testEnv wires every service against a fresh in-memory store. Service tests
// run against the real repositories so batch composition and index
// maintenance are exercised, not stubbed.
type testEnv struct {
	store *docstore.Store

	articleRepo     repository.ArticleRepository
	commentRepo     repository.CommentRepository
	tagRepo         repository.TagRepository
	categoryRepo    repository.CategoryRepository
	likeRepo        repository.LikeRepository
	commentLikeRepo repository.CommentLikeRepository
	followRepo      repository.FollowRepository
	userRepo        repository.UserRepository

	articles  *ArticleService
	comments  *CommentService
	follows   *FollowService
	users     *UserService
	reconcile *ReconcileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := docstore.New(rdb)

	env := &testEnv{
		store:           store,
		articleRepo:     repository.NewArticleRepository(store),
		commentRepo:     repository.NewCommentRepository(store),
		tagRepo:         repository.NewTagRepository(store),
		categoryRepo:    repository.NewCategoryRepository(store),
		likeRepo:        repository.NewLikeRepository(store),
		commentLikeRepo: repository.NewCommentLikeRepository(store),
		followRepo:      repository.NewFollowRepository(store),
		userRepo:        repository.NewUserRepository(store),
	}
	env.articles = NewArticleService(
		store, env.articleRepo, env.commentRepo, env.tagRepo, env.categoryRepo, env.likeRepo, env.userRepo)
	env.comments = NewCommentService(
		store, env.commentRepo, env.articleRepo, env.commentLikeRepo, env.userRepo)
	env.follows = NewFollowService(store, env.followRepo, env.userRepo)
	env.users = NewUserService(env.userRepo, env.followRepo)
	env.reconcile = NewReconcileService(store, env.articleRepo, env.tagRepo, env.categoryRepo)

	require.NoError(t, env.categoryRepo.Seed(context.Background()))
	return env
}

func (env *testEnv) createUser(t *testing.T, uid, name string) *models.User {
	t.Helper()
	user, err := env.users.UpsertProfile(context.Background(), UpsertProfileInput{
		UID:           uid,
		DisplayName:   name,
		Email:         uid + "@example.com",
		EmailVerified: true,
	})
	require.NoError(t, err)
	return user
}

func (env *testEnv) createArticle(t *testing.T, authorID string, overrides ...func(*CreateArticleInput)) *models.Article {
	t.Helper()
	in := CreateArticleInput{
		AuthorID:   authorID,
		Title:      "A title",
		Content:    "Some article content with enough words to matter.",
		CategoryID: "backend",
		Tags:       []string{"go"},
		IsPublic:   true,
	}
	for _, override := range overrides {
		override(&in)
	}
	article, err := env.articles.CreateArticle(context.Background(), in)
	require.NoError(t, err)
	return article
}

func (env *testEnv) tagCount(t *testing.T, slug string) int64 {
	t.Helper()
	tag, err := env.tagRepo.GetBySlug(context.Background(), slug)
	if models.ErrorCode(err) == models.CodeNotFound {
		return 0
	}
	require.NoError(t, err)
	return tag.ArticleCount
}

func (env *testEnv) categoryCount(t *testing.T, id string) int64 {
	t.Helper()
	category, err := env.categoryRepo.GetByID(context.Background(), id)
	require.NoError(t, err)
	return category.ArticleCount
}
