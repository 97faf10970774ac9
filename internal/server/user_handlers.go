package server

import (
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)
	user, err := s.userService.GetProfile(c.UserContext(), userID, "")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// UpsertMyProfile handles PUT /api/me
func (s *Server) UpsertMyProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var req struct {
		DisplayName   string `json:"display_name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		AvatarURL     string `json:"avatar_url"`
		Bio           string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fail(c, errInvalidBody())
	}

	user, err := s.userService.UpsertProfile(c.UserContext(), service.UpsertProfileInput{
		UID:           userID,
		DisplayName:   req.DisplayName,
		Email:         req.Email,
		EmailVerified: req.EmailVerified,
		AvatarURL:     req.AvatarURL,
		Bio:           req.Bio,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// GetUserProfile handles GET /api/users/:uid
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	uid, err := requireParam(c, "uid")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetProfile(c.UserContext(), uid, optionalUserID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// FollowUser handles POST /api/users/:uid/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	uid, err := requireParam(c, "uid")
	if err != nil {
		return nil
	}

	if err := s.followService.Follow(c.UserContext(), currentUserID(c), uid); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"following": true})
}

// UnfollowUser handles DELETE /api/users/:uid/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	uid, err := requireParam(c, "uid")
	if err != nil {
		return nil
	}

	if err := s.followService.Unfollow(c.UserContext(), currentUserID(c), uid); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"following": false})
}

// ListFollowers handles GET /api/users/:uid/followers
func (s *Server) ListFollowers(c *fiber.Ctx) error {
	uid, err := requireParam(c, "uid")
	if err != nil {
		return nil
	}

	users, err := s.followService.Followers(c.UserContext(), uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

// ListFollowing handles GET /api/users/:uid/following
func (s *Server) ListFollowing(c *fiber.Ctx) error {
	uid, err := requireParam(c, "uid")
	if err != nil {
		return nil
	}

	users, err := s.followService.Following(c.UserContext(), uid)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}
