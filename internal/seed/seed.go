package seed

import (
	"context"
	"log"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumArticles int
}

// Run seeds categories, users, articles, threaded comments, likes and
// follows. Everything flows through the service layer, so the seeded dataset
// has internally consistent counters without any post-processing.
func Run(ctx context.Context, opts Options,
	categories repository.CategoryRepository,
	users *service.UserService,
	articles *service.ArticleService,
	comments *service.CommentService,
	follows *service.FollowService,
) error {
	if opts.NumUsers <= 0 {
		opts.NumUsers = 10
	}
	if opts.NumArticles <= 0 {
		opts.NumArticles = 30
	}

	if err := categories.Seed(ctx); err != nil {
		return err
	}
	log.Printf("seeded %d categories", len(models.Categories()))

	f := NewFactory(users, articles, comments, follows)

	seededUsers := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser(ctx)
		if err != nil {
			return err
		}
		seededUsers = append(seededUsers, user)
	}
	log.Printf("seeded %d users", len(seededUsers))

	seededArticles := make([]*models.Article, 0, opts.NumArticles)
	for i := 0; i < opts.NumArticles; i++ {
		author := seededUsers[f.rng.Intn(len(seededUsers))]
		article, err := f.CreateArticle(ctx, author)
		if err != nil {
			return err
		}
		seededArticles = append(seededArticles, article)
	}
	log.Printf("seeded %d articles", len(seededArticles))

	commentCount := 0
	for _, article := range seededArticles {
		if !article.IsPublic {
			continue
		}
		for i := 0; i < f.rng.Intn(4); i++ {
			author := seededUsers[f.rng.Intn(len(seededUsers))]
			top, err := f.CreateComment(ctx, author, article.ID, "")
			if err != nil {
				return err
			}
			commentCount++
			if f.rng.Intn(2) == 0 {
				replier := seededUsers[f.rng.Intn(len(seededUsers))]
				if _, err := f.CreateComment(ctx, replier, article.ID, top.ID); err != nil {
					return err
				}
				commentCount++
			}
		}
	}
	log.Printf("seeded %d comments", commentCount)

	likeCount := 0
	for _, article := range seededArticles {
		if !article.IsPublic {
			continue
		}
		for i := 0; i < f.rng.Intn(len(seededUsers)); i++ {
			if err := articles.LikeArticle(ctx, seededUsers[i].UID, article.ID); err != nil {
				return err
			}
			likeCount++
		}
	}
	log.Printf("seeded %d likes", likeCount)

	followCount := 0
	for _, follower := range seededUsers {
		for i := 0; i < f.rng.Intn(4); i++ {
			target := seededUsers[f.rng.Intn(len(seededUsers))]
			if target.UID == follower.UID {
				continue
			}
			err := follows.Follow(ctx, follower.UID, target.UID)
			if err != nil {
				if models.ErrorCode(err) == models.CodeAlreadyExists {
					continue
				}
				return err
			}
			followCount++
		}
	}
	log.Printf("seeded %d follows", followCount)

	return nil
}
