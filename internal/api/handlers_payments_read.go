package api

import (
	"strings"
	"time"

	"github.com/billow-app/billow/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListPayments(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	statusFilter := strings.ToLower(strings.TrimSpace(c.Query("status")))
	categoryFilter := strings.ToLower(strings.TrimSpace(c.Query("category")))

	payments, err := handler.paymentService.ListPayments(user.ID, statusFilter, categoryFilter)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load payments")
	}
	return c.JSON(fiber.Map{"payments": payments})
}

func (handler *Handler) GetPayment(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payment, err := handler.paymentService.GetPayment(user.ID, c.Params("id"))
	if err != nil {
		return respondPaymentError(c, err)
	}
	return c.JSON(fiber.Map{"payment": payment})
}

func (handler *Handler) ListPaymentReminders(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payment, err := handler.paymentService.GetPayment(user.ID, c.Params("id"))
	if err != nil {
		return respondPaymentError(c, err)
	}

	reminders, err := handler.repositories.Reminders.ListByPayment(payment.ID)
	if err != nil {
		return apiError(c, fiber.StatusInternalServerError, "failed to load reminders")
	}
	return c.JSON(fiber.Map{"reminders": reminders})
}

// PaymentOccurrences previews when a recurring payment would fall due
// next. Display only; nothing is created.
func (handler *Handler) PaymentOccurrences(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	payment, err := handler.paymentService.GetPayment(user.ID, c.Params("id"))
	if err != nil {
		return respondPaymentError(c, err)
	}

	count := c.QueryInt("count", services.DefaultOccurrencePreview)
	occurrences, err := services.NextOccurrences(payment.Frequency, payment.DueDate, handler.clock.Now(), count)
	if err != nil {
		return respondPaymentError(c, err)
	}

	formatted := make([]string, 0, len(occurrences))
	for _, occurrence := range occurrences {
		formatted = append(formatted, occurrence.Format(time.RFC3339))
	}
	return c.JSON(fiber.Map{"occurrences": formatted})
}
