package server

import (
	"github.com/gofiber/fiber/v2"
)

// RunReconciliation handles POST /api/admin/reconcile (admin only)
func (s *Server) RunReconciliation(c *fiber.Ctx) error {
	reports, err := s.reconcileService.Run(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(reports)
}

// ReconcileTags handles POST /api/admin/reconcile/tags (admin only)
func (s *Server) ReconcileTags(c *fiber.Ctx) error {
	report, err := s.reconcileService.RecomputeTagCounts(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}

// ReconcileCategories handles POST /api/admin/reconcile/categories (admin only)
func (s *Server) ReconcileCategories(c *fiber.Ctx) error {
	report, err := s.reconcileService.RecomputeCategoryCounts(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(report)
}
