// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/docstore"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	store          *docstore.Store
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository

	articleService   *service.ArticleService
	commentService   *service.CommentService
	followService    *service.FollowService
	userService      *service.UserService
	reconcileService *service.ReconcileService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	store, err := docstore.Open(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("document store connection failed: %w", err)
	}
	return NewServerWithStore(cfg, store)
}

// NewServerWithStore creates a Server using an already-initialized store.
// Use this in tests or when a bootstrap layer establishes the connection.
func NewServerWithStore(cfg *config.Config, store *docstore.Store) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(store)
	articleRepo := repository.NewArticleRepository(store)
	commentRepo := repository.NewCommentRepository(store)
	tagRepo := repository.NewTagRepository(store)
	categoryRepo := repository.NewCategoryRepository(store)
	likeRepo := repository.NewLikeRepository(store)
	commentLikeRepo := repository.NewCommentLikeRepository(store)
	followRepo := repository.NewFollowRepository(store)

	prom := middleware.InitMetrics("inkwell-api")

	server := &Server{
		config:         cfg,
		store:          store,
		promMiddleware: prom,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		tagRepo:        tagRepo,
	}
	server.articleService = service.NewArticleService(
		store, articleRepo, commentRepo, tagRepo, categoryRepo, likeRepo, userRepo)
	server.commentService = service.NewCommentService(
		store, commentRepo, articleRepo, commentLikeRepo, userRepo)
	server.followService = service.NewFollowService(store, followRepo, userRepo)
	server.userService = service.NewUserService(userRepo, followRepo)
	server.reconcileService = service.NewReconcileService(
		store, articleRepo, tagRepo, categoryRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Distributed tracing (no-op unless tracing is enabled in config)
	app.Use(middleware.TracingMiddleware())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware runs before middlewares that can short-circuit (e.g.
	// limiter) so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Inkwell Backend Metrics Dashboard",
	}))

	// Public article routes. OptionalAuth resolves the viewer when a token is
	// present so responses can carry per-user state (liked, drafts).
	articles := api.Group("/articles")
	articles.Get("/", middleware.OptionalAuth, s.ListArticles)
	articles.Get("/:id/comments", s.ListComments)
	articles.Get("/:id", middleware.OptionalAuth, s.GetArticle)
	articles.Post("/:id/view", s.RecordArticleView)

	// Public taxonomy routes
	api.Get("/tags", s.ListTags)
	api.Get("/categories", s.ListCategories)

	// Public user routes
	api.Get("/users/:uid/articles", middleware.OptionalAuth, s.ListUserArticles)
	api.Get("/users/:uid/followers", s.ListFollowers)
	api.Get("/users/:uid/following", s.ListFollowing)
	api.Get("/users/:uid", middleware.OptionalAuth, s.GetUserProfile)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired)

	// Profile routes
	protected.Get("/me", s.GetMyProfile)
	protected.Put("/me", s.UpsertMyProfile)

	// Protected article routes
	protectedArticles := protected.Group("/articles")
	protectedArticles.Post("/", s.CreateArticle)
	// Specific /:id/:resource routes BEFORE generic /:id route
	protectedArticles.Post("/:id/like", s.LikeArticle)
	protectedArticles.Delete("/:id/like", s.UnlikeArticle)
	protectedArticles.Post("/:id/comments", middleware.RateLimit(
		s.store.Client(), s.config.CommentRateLimit,
		time.Duration(s.config.CommentRateWindow)*time.Second, "create_comment"), s.CreateComment)
	protectedArticles.Put("/:id", s.UpdateArticle)
	protectedArticles.Delete("/:id", s.DeleteArticle)

	// Protected comment routes
	comments := protected.Group("/comments")
	comments.Get("/:id/replies", s.ListCommentReplies)
	comments.Post("/:id/like", s.LikeComment)
	comments.Delete("/:id/like", s.UnlikeComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Follow routes
	protected.Post("/users/:uid/follow", s.FollowUser)
	protected.Delete("/users/:uid/follow", s.UnfollowUser)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Post("/reconcile", s.RunReconciliation)
	admin.Post("/reconcile/tags", s.ReconcileTags)
	admin.Post("/reconcile/categories", s.ReconcileCategories)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	storeStatus := "healthy"
	if err := s.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if storeStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"store": storeStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := currentUserID(c)

		user, err := s.userRepo.GetByID(c.UserContext(), userID)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if user.Role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewUnauthorizedError("Admin access required"))
		}

		return c.Next()
	}
}

// Start starts the server
func (s *Server) Start() error {
	app := fiber.New(fiber.Config{
		AppName: "Inkwell API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			log.Printf("error closing store: %v", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
