package api

import (
	"github.com/billow-app/billow/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	authCookieName = "billow_auth"
	contextUserKey = "current_user"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok
}
