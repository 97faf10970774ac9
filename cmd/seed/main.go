// Command seed populates the document store with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/docstore"
	"inkwell/internal/repository"
	"inkwell/internal/seed"
	"inkwell/internal/service"
)

func main() {
	numUsers := flag.Int("users", 10, "number of users to create")
	numArticles := flag.Int("articles", 30, "number of articles to create")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := docstore.Open(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer store.Close()

	userRepo := repository.NewUserRepository(store)
	articleRepo := repository.NewArticleRepository(store)
	commentRepo := repository.NewCommentRepository(store)
	tagRepo := repository.NewTagRepository(store)
	categoryRepo := repository.NewCategoryRepository(store)
	likeRepo := repository.NewLikeRepository(store)
	commentLikeRepo := repository.NewCommentLikeRepository(store)
	followRepo := repository.NewFollowRepository(store)

	articleService := service.NewArticleService(
		store, articleRepo, commentRepo, tagRepo, categoryRepo, likeRepo, userRepo)
	commentService := service.NewCommentService(
		store, commentRepo, articleRepo, commentLikeRepo, userRepo)
	followService := service.NewFollowService(store, followRepo, userRepo)
	userService := service.NewUserService(userRepo, followRepo)

	ctx := context.Background()
	if err := seed.Run(ctx, seed.Options{
		NumUsers:    *numUsers,
		NumArticles: *numArticles,
	}, categoryRepo, userService, articleService, commentService, followService); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
