package api

import (
	"github.com/billow-app/billow/internal/models"
	"github.com/billow-app/billow/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// Categories returns the closed category catalog with its
// presentation metadata.
func (handler *Handler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": models.CategoryCatalog()})
}

func (handler *Handler) Summary(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payments, err := handler.paymentService.ListPayments(user.ID, "", "")
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load payments")
	}
	return c.JSON(services.BuildSummary(payments, handler.clock.Now()))
}
