package server

import (
	"github.com/gofiber/fiber/v2"
)

// ListTags handles GET /api/tags
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tagRepo.ListAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(tags)
}

// ListCategories handles GET /api/categories
func (s *Server) ListCategories(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListAll(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(categories)
}
