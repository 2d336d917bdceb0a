package api

import (
	"errors"
	"strings"
	"time"

	"github.com/billow-app/billow/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var (
	errInvalidPayload = errors.New("invalid input")
	errInvalidAmount  = errors.New("invalid amount")
	errInvalidDueDate = errors.New("invalid due date")
)

const dueDateOnlyLayout = "2006-01-02"

// parsePaymentInput converts the wire payload into a service input.
// Only the wire shape is checked here; field rules live in the
// service layer.
func parsePaymentInput(c *fiber.Ctx) (services.PaymentInput, error) {
	payload := paymentPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return services.PaymentInput{}, errInvalidPayload
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(payload.Amount))
	if err != nil {
		return services.PaymentInput{}, errInvalidAmount
	}

	dueDate, err := parseDueDate(payload.DueDate)
	if err != nil {
		return services.PaymentInput{}, err
	}

	return services.PaymentInput{
		Title:           payload.Title,
		Amount:          amount,
		DueDate:         dueDate,
		Category:        payload.Category,
		Frequency:       payload.Frequency,
		Notes:           payload.Notes,
		ReminderEnabled: payload.ReminderEnabled,
		ReminderTypes:   payload.ReminderTypes,
	}, nil
}

// parseDueDate accepts RFC 3339 or a bare date, which lands on UTC
// midnight. An empty value passes through as the zero time so the
// service can report the missing field.
func parseDueDate(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, nil
	}

	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(dueDateOnlyLayout, value); err == nil {
		return parsed, nil
	}
	return time.Time{}, errInvalidDueDate
}
