package api

import (
	"errors"

	"github.com/billow-app/billow/internal/services"
	"github.com/gofiber/fiber/v2"
)

var paymentInputSentinels = []error{
	services.ErrTitleRequired,
	services.ErrTitleTooLong,
	services.ErrAmountNotPositive,
	services.ErrAmountTooLarge,
	services.ErrDueDateRequired,
	services.ErrNotesTooLong,
	services.ErrInvalidFrequency,
	services.ErrInvalidReminderType,
}

func respondPaymentError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrPaymentNotFound) {
		return apiError(c, fiber.StatusNotFound, "payment not found")
	}
	for _, sentinel := range paymentInputSentinels {
		if errors.Is(err, sentinel) {
			return apiError(c, fiber.StatusBadRequest, sentinel.Error())
		}
	}
	return apiError(c, fiber.StatusInternalServerError, "payment operation failed")
}

// mutationJSON carries the committed payment plus an optional warning
// when its reminders did not fully reconcile. The warning never turns
// the mutation into a failure.
func mutationJSON(mutation services.PaymentMutation) fiber.Map {
	response := fiber.Map{"payment": mutation.Payment}
	if mutation.SyncWarning != nil {
		response["warning"] = mutation.SyncWarning.Error()
	}
	return response
}
