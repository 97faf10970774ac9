package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateArticle handles POST /api/articles
func (s *Server) CreateArticle(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		CategoryID string   `json:"category_id"`
		Tags       []string `json:"tags"`
		IsPublic   bool     `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody())
	}

	article, err := s.articleService.CreateArticle(ctx, service.CreateArticleInput{
		AuthorID:   userID,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(article)
}

// GetArticle handles GET /api/articles/:id
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.GetArticle(c.UserContext(), id, optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(article)
}

// ListArticles handles GET /api/articles
func (s *Server) ListArticles(c *fiber.Ctx) error {
	articles, err := s.articleService.ListArticles(c.UserContext(), service.ListArticlesInput{
		ViewerID:   optionalUserID(c),
		Limit:      parseLimit(c, defaultPageLimit),
		Tag:        c.Query("tag"),
		CategoryID: c.Query("category"),
		Search:     c.Query("q"),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(articles)
}

// UpdateArticle handles PUT /api/articles/:id
func (s *Server) UpdateArticle(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var req struct {
		Title      string   `json:"title"`
		Content    string   `json:"content"`
		CategoryID string   `json:"category_id"`
		Tags       []string `json:"tags"`
		IsPublic   *bool    `json:"is_public"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody())
	}

	article, err := s.articleService.UpdateArticle(c.UserContext(), service.UpdateArticleInput{
		UserID:     userID,
		ArticleID:  id,
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
		Tags:       req.Tags,
		IsPublic:   req.IsPublic,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(article)
}

// DeleteArticle handles DELETE /api/articles/:id
func (s *Server) DeleteArticle(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.DeleteArticle(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeArticle handles POST /api/articles/:id/like
func (s *Server) LikeArticle(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.LikeArticle(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"liked": true})
}

// UnlikeArticle handles DELETE /api/articles/:id/like
func (s *Server) UnlikeArticle(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.UnlikeArticle(c.UserContext(), currentUserID(c), id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"liked": false})
}

// RecordArticleView handles POST /api/articles/:id/view
func (s *Server) RecordArticleView(c *fiber.Ctx) error {
	id, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.articleService.RecordView(c.UserContext(), id); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListUserArticles handles GET /api/users/:uid/articles
func (s *Server) ListUserArticles(c *fiber.Ctx) error {
	uid, err := requireParam(c, "uid")
	if err != nil {
		return nil
	}

	articles, err := s.articleService.ListByAuthor(
		c.UserContext(), uid, optionalUserID(c), parseLimit(c, defaultPageLimit))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(articles)
}
