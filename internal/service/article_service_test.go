package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateArticle(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")

	t.Run("creates article and moves aggregates together", func(t *testing.T) {
		article, err := env.articles.CreateArticle(ctx, CreateArticleInput{
			AuthorID:   author.UID,
			Title:      "Intro to Redis pipelines",
			Content:    "# Pipelines\n\nBatching writes with **MULTI/EXEC**.",
			CategoryID: "backend",
			Tags:       []string{"Go", "redis"},
			IsPublic:   true,
		})
		require.NoError(t, err)
		assert.NotEmpty(t, article.ID)
		assert.Equal(t, "alice", article.AuthorName)
		assert.Equal(t, "Pipelines Batching writes with MULTI/EXEC.", article.Excerpt)
		assert.False(t, article.PublishedAt.IsZero())

		assert.Equal(t, int64(1), env.tagCount(t, "go"))
		assert.Equal(t, int64(1), env.tagCount(t, "redis"))
		assert.Equal(t, int64(1), env.categoryCount(t, "backend"))

		user, err := env.userRepo.GetByID(ctx, author.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ArticleCount)
	})

	t.Run("draft has no published timestamp", func(t *testing.T) {
		article := env.createArticle(t, author.UID, func(in *CreateArticleInput) {
			in.IsPublic = false
			in.Tags = nil
		})
		assert.True(t, article.PublishedAt.IsZero())
	})

	t.Run("rejects incomplete profiles", func(t *testing.T) {
		lurker, err := env.users.UpsertProfile(ctx, UpsertProfileInput{
			UID: "u-lurker", DisplayName: "bob", Email: "bob@example.com",
		})
		require.NoError(t, err)

		_, err = env.articles.CreateArticle(ctx, CreateArticleInput{
			AuthorID: lurker.UID, Title: "t", Content: "c", CategoryID: "backend",
		})
		assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*CreateArticleInput)
		}{
			{"missing title", func(in *CreateArticleInput) { in.Title = " " }},
			{"title too long", func(in *CreateArticleInput) { in.Title = strings.Repeat("あ", models.MaxArticleTitleLen+1) }},
			{"missing content", func(in *CreateArticleInput) { in.Content = "" }},
			{"too many tags", func(in *CreateArticleInput) {
				in.Tags = []string{"a", "b", "c", "d", "e", "f"}
			}},
			{"blank tag", func(in *CreateArticleInput) { in.Tags = []string{"go", " "} }},
			{"unknown category", func(in *CreateArticleInput) { in.CategoryID = "gardening" }},
		}
		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				in := CreateArticleInput{
					AuthorID: author.UID, Title: "ok", Content: "ok",
					CategoryID: "backend", Tags: []string{"go"}, IsPublic: true,
				}
				tt.mutate(&in)
				_, err := env.articles.CreateArticle(ctx, in)
				assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
			})
		}
	})
}

func TestUpdateArticle_TagTransitions(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")

	t.Run("swapping tags on a public article", func(t *testing.T) {
		article := env.createArticle(t, author.UID, func(in *CreateArticleInput) {
			in.Tags = []string{"go"}
		})
		require.Equal(t, int64(1), env.tagCount(t, "go"))

		_, err := env.articles.UpdateArticle(ctx, UpdateArticleInput{
			UserID: author.UID, ArticleID: article.ID, Tags: []string{"Redis"},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), env.tagCount(t, "go"))
		assert.Equal(t, int64(1), env.tagCount(t, "redis"))
	})

	t.Run("unpublishing releases all tags", func(t *testing.T) {
		article := env.createArticle(t, author.UID, func(in *CreateArticleInput) {
			in.Tags = []string{"docker", "k8s"}
		})
		require.Equal(t, int64(1), env.tagCount(t, "docker"))

		_, err := env.articles.UpdateArticle(ctx, UpdateArticleInput{
			UserID: author.UID, ArticleID: article.ID, IsPublic: boolPtr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), env.tagCount(t, "docker"))
		assert.Equal(t, int64(0), env.tagCount(t, "k8s"))
	})

	t.Run("publishing a draft claims its tags and sets publishedAt once", func(t *testing.T) {
		article := env.createArticle(t, author.UID, func(in *CreateArticleInput) {
			in.IsPublic = false
			in.Tags = nil
		})
		require.True(t, article.PublishedAt.IsZero())

		published, err := env.articles.UpdateArticle(ctx, UpdateArticleInput{
			UserID: author.UID, ArticleID: article.ID,
			Tags: []string{"grpc"}, IsPublic: boolPtr(true),
		})
		require.NoError(t, err)
		assert.False(t, published.PublishedAt.IsZero())
		assert.Equal(t, int64(1), env.tagCount(t, "grpc"))

		// Unpublish and republish; the original timestamp sticks.
		_, err = env.articles.UpdateArticle(ctx, UpdateArticleInput{
			UserID: author.UID, ArticleID: article.ID, IsPublic: boolPtr(false),
		})
		require.NoError(t, err)
		again, err := env.articles.UpdateArticle(ctx, UpdateArticleInput{
			UserID: author.UID, ArticleID: article.ID, IsPublic: boolPtr(true),
		})
		require.NoError(t, err)
		assert.True(t, published.PublishedAt.Equal(again.PublishedAt))
	})

	t.Run("only the author can update", func(t *testing.T) {
		env.createUser(t, "u2", "mallory")
		article := env.createArticle(t, author.UID)
		_, err := env.articles.UpdateArticle(ctx, UpdateArticleInput{
			UserID: "u2", ArticleID: article.ID, Title: "hijacked",
		})
		assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))
	})
}

func TestUpdateArticle_CategoryTransition(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")

	article := env.createArticle(t, author.UID, func(in *CreateArticleInput) {
		in.CategoryID = "backend"
	})
	require.Equal(t, int64(1), env.categoryCount(t, "backend"))

	_, err := env.articles.UpdateArticle(ctx, UpdateArticleInput{
		UserID: author.UID, ArticleID: article.ID, CategoryID: "devops",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), env.categoryCount(t, "backend"))
	assert.Equal(t, int64(1), env.categoryCount(t, "devops"))

	// Unpublishing releases the category slot too.
	_, err = env.articles.UpdateArticle(ctx, UpdateArticleInput{
		UserID: author.UID, ArticleID: article.ID, IsPublic: boolPtr(false),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), env.categoryCount(t, "devops"))
}

func TestDeleteArticle_Cascade(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")
	reader := env.createUser(t, "u2", "bob")

	article := env.createArticle(t, author.UID, func(in *CreateArticleInput) {
		in.Tags = []string{"go"}
	})
	comment, err := env.comments.CreateComment(ctx, CreateCommentInput{
		UserID: reader.UID, ArticleID: article.ID, Content: "nice",
	})
	require.NoError(t, err)
	require.NoError(t, env.articles.LikeArticle(ctx, reader.UID, article.ID))

	require.NoError(t, env.articles.DeleteArticle(ctx, author.UID, article.ID))

	_, err = env.articleRepo.GetByID(ctx, article.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	_, err = env.commentRepo.GetByID(ctx, comment.ID)
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))

	liked, err := env.likeRepo.Exists(ctx, reader.UID, article.ID)
	require.NoError(t, err)
	assert.False(t, liked)

	assert.Equal(t, int64(0), env.tagCount(t, "go"))
	assert.Equal(t, int64(0), env.categoryCount(t, "backend"))

	user, err := env.userRepo.GetByID(ctx, author.UID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), user.ArticleCount)
}

func TestDeleteArticle_Authorization(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")
	env.createUser(t, "u2", "bob")

	article := env.createArticle(t, author.UID)
	err := env.articles.DeleteArticle(ctx, "u2", article.ID)
	assert.Equal(t, models.CodeUnauthorized, models.ErrorCode(err))

	// Admins may delete anyone's article.
	admin := env.createUser(t, "u-admin", "root")
	admin.Role = models.RoleAdmin
	b := env.store.Batch()
	env.userRepo.UpdateIn(b, admin)
	require.NoError(t, b.Commit(ctx))
	assert.NoError(t, env.articles.DeleteArticle(ctx, admin.UID, article.ID))
}

func TestLikeArticle_Idempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")
	reader := env.createUser(t, "u2", "bob")
	article := env.createArticle(t, author.UID)

	require.NoError(t, env.articles.LikeArticle(ctx, reader.UID, article.ID))
	require.NoError(t, env.articles.LikeArticle(ctx, reader.UID, article.ID))

	got, err := env.articleRepo.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.LikeCount)

	require.NoError(t, env.articles.UnlikeArticle(ctx, reader.UID, article.ID))
	require.NoError(t, env.articles.UnlikeArticle(ctx, reader.UID, article.ID))

	got, err = env.articleRepo.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.LikeCount)
}

func TestGetArticle_DraftVisibility(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")
	draft := env.createArticle(t, author.UID, func(in *CreateArticleInput) {
		in.IsPublic = false
	})

	got, err := env.articles.GetArticle(ctx, draft.ID, author.UID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	_, err = env.articles.GetArticle(ctx, draft.ID, "someone-else")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	_, err = env.articles.GetArticle(ctx, draft.ID, "")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}

func TestListArticles(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")

	env.createArticle(t, author.UID, func(in *CreateArticleInput) {
		in.Title = "Go concurrency patterns"
		in.Tags = []string{"go"}
	})
	env.createArticle(t, author.UID, func(in *CreateArticleInput) {
		in.Title = "React state management"
		in.CategoryID = "frontend"
		in.Tags = []string{"react"}
	})
	env.createArticle(t, author.UID, func(in *CreateArticleInput) {
		in.Title = "Hidden draft"
		in.IsPublic = false
	})

	t.Run("drafts excluded", func(t *testing.T) {
		articles, err := env.articles.ListArticles(ctx, ListArticlesInput{Limit: 10})
		require.NoError(t, err)
		assert.Len(t, articles, 2)
	})

	t.Run("filter by tag", func(t *testing.T) {
		articles, err := env.articles.ListArticles(ctx, ListArticlesInput{Limit: 10, Tag: "React"})
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "React state management", articles[0].Title)
	})

	t.Run("filter by category", func(t *testing.T) {
		articles, err := env.articles.ListArticles(ctx, ListArticlesInput{Limit: 10, CategoryID: "backend"})
		require.NoError(t, err)
		require.Len(t, articles, 1)
		assert.Equal(t, "Go concurrency patterns", articles[0].Title)
	})

	t.Run("search matches title", func(t *testing.T) {
		articles, err := env.articles.ListArticles(ctx, ListArticlesInput{Limit: 10, Search: "concurrency"})
		require.NoError(t, err)
		require.Len(t, articles, 1)
	})

	t.Run("liked annotation for viewer", func(t *testing.T) {
		reader := env.createUser(t, "u2", "bob")
		articles, err := env.articles.ListArticles(ctx, ListArticlesInput{Limit: 1, ViewerID: reader.UID})
		require.NoError(t, err)
		require.Len(t, articles, 1)
		require.NoError(t, env.articles.LikeArticle(ctx, reader.UID, articles[0].ID))

		articles, err = env.articles.ListArticles(ctx, ListArticlesInput{Limit: 1, ViewerID: reader.UID})
		require.NoError(t, err)
		assert.True(t, articles[0].Liked)
	})
}

func TestListByAuthor_DraftsHiddenFromOthers(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")
	env.createArticle(t, author.UID)
	env.createArticle(t, author.UID, func(in *CreateArticleInput) { in.IsPublic = false })

	own, err := env.articles.ListByAuthor(ctx, author.UID, author.UID, 0)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	visible, err := env.articles.ListByAuthor(ctx, author.UID, "stranger", 0)
	require.NoError(t, err)
	assert.Len(t, visible, 1)
}

func TestRecordView(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "u1", "alice")
	article := env.createArticle(t, author.UID)

	require.NoError(t, env.articles.RecordView(ctx, article.ID))
	require.NoError(t, env.articles.RecordView(ctx, article.ID))

	got, err := env.articleRepo.GetByID(ctx, article.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ViewCount)

	err = env.articles.RecordView(ctx, "missing")
	assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
}
