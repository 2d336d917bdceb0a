package api

import (
	"github.com/billow-app/billow/internal/models"
	"github.com/gofiber/fiber/v2"
)

// WriteAccessRequired rejects mutations from guest sessions.
func (handler *Handler) WriteAccessRequired(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if user.Role == models.RoleGuest {
		return apiError(c, fiber.StatusForbidden, "read-only access")
	}
	return c.Next()
}
