// Package seed provides helpers to create demo data for development and
// testing. All writes go through the regular service layer so seeded data
// carries correct aggregates and indexes.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"inkwell/internal/models"
	"inkwell/internal/service"
)

// Factory builds domain entities through the service layer.
type Factory struct {
	users    *service.UserService
	articles *service.ArticleService
	comments *service.CommentService
	follows  *service.FollowService
	rng      *rand.Rand
}

// NewFactory creates a new Factory bound to the provided services.
func NewFactory(
	users *service.UserService,
	articles *service.ArticleService,
	comments *service.CommentService,
	follows *service.FollowService,
) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		users:    users,
		articles: articles,
		comments: comments,
		follows:  follows,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateUser persists a sample user profile. Optional override functions may
// modify the generated input before saving.
func (f *Factory) CreateUser(ctx context.Context, overrides ...func(*service.UpsertProfileInput)) (*models.User, error) {
	in := service.UpsertProfileInput{
		UID:           gofakeit.UUID(),
		DisplayName:   gofakeit.Username(),
		Email:         gofakeit.Email(),
		EmailVerified: true,
		AvatarURL:     fmt.Sprintf("https://i.pravatar.cc/150?u=%s", gofakeit.UUID()),
		Bio:           gofakeit.Sentence(10),
	}
	for _, override := range overrides {
		override(&in)
	}
	return f.users.UpsertProfile(ctx, in)
}

// CreateArticle persists a sample article authored by the given user.
func (f *Factory) CreateArticle(ctx context.Context, author *models.User, overrides ...func(*service.CreateArticleInput)) (*models.Article, error) {
	categories := models.Categories()
	category := categories[f.rng.Intn(len(categories))]

	paragraphs := make([]string, 0, 4)
	for i := 0; i < 2+f.rng.Intn(3); i++ {
		paragraphs = append(paragraphs, gofakeit.Paragraph(1, 4, 12, " "))
	}

	in := service.CreateArticleInput{
		AuthorID:   author.UID,
		Title:      strings.TrimSuffix(gofakeit.Sentence(6), "."),
		Content:    "# " + gofakeit.Sentence(4) + "\n\n" + strings.Join(paragraphs, "\n\n"),
		CategoryID: category.ID,
		Tags:       f.sampleTags(),
		IsPublic:   f.rng.Intn(10) > 1, // mostly public, the odd draft
	}
	for _, override := range overrides {
		override(&in)
	}
	return f.articles.CreateArticle(ctx, in)
}

// CreateComment persists a sample comment, optionally as a reply.
func (f *Factory) CreateComment(ctx context.Context, author *models.User, articleID, parentID string) (*models.Comment, error) {
	return f.comments.CreateComment(ctx, service.CreateCommentInput{
		UserID:    author.UID,
		ArticleID: articleID,
		Content:   gofakeit.Sentence(8 + f.rng.Intn(12)),
		ParentID:  parentID,
	})
}

var tagPool = []string{
	"go", "typescript", "react", "kubernetes", "docker", "terraform",
	"postgres", "redis", "graphql", "testing", "architecture", "performance",
	"observability", "ci-cd", "security", "machine-learning",
}

func (f *Factory) sampleTags() []string {
	n := 1 + f.rng.Intn(models.MaxArticleTags)
	picked := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(picked) < n {
		tag := tagPool[f.rng.Intn(len(tagPool))]
		if !seen[tag] {
			seen[tag] = true
			picked = append(picked, tag)
		}
	}
	return picked
}
