package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetFeatureFlags handles GET /api/flags. It returns each configured flag
// evaluated for the authenticated user, so percentage rollouts resolve to a
// concrete answer the client can act on.
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	return c.JSON(fiber.Map{"flags": s.flags.Snapshot(userID)})
}
