package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment creates a comment on an article (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := currentUserID(c)

	articleID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content  string `json:"content"`
		ParentID string `json:"parent_id"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return fail(c, errInvalidBody())
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:    userID,
		ArticleID: articleID,
		Content:   req.Content,
		ParentID:  req.ParentID,
	})
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments handles GET /api/articles/:id/comments and returns top-level
// comments with their reply subtrees.
func (s *Server) ListComments(c *fiber.Ctx) error {
	articleID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	threads, err := s.commentService.ListThreads(
		c.UserContext(), articleID, parseLimit(c, defaultPageLimit), int64(c.QueryInt("replies", 0)))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(threads)
}

// ListCommentReplies handles GET /api/comments/:id/replies
func (s *Server) ListCommentReplies(c *fiber.Ctx) error {
	parentID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.commentService.ListReplies(
		c.UserContext(), parentID, parseLimit(c, defaultPageLimit))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(replies)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return fail(c, errInvalidBody())
	}

	comment, err := s.commentService.UpdateComment(c.UserContext(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.UserContext(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
	}); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	commentID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.LikeComment(c.UserContext(), currentUserID(c), commentID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"liked": true})
}

// UnlikeComment handles DELETE /api/comments/:id/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	commentID, err := requireParam(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.UnlikeComment(c.UserContext(), currentUserID(c), commentID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"liked": false})
}
