package services

import (
	"errors"
	"strings"
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/shopspring/decimal"
)

const (
	MaxTitleLength = 100
	MaxNotesLength = 500
)

// MaxAmount bounds payment amounts at 999,999,999.
var MaxAmount = decimal.NewFromInt(999_999_999)

var (
	ErrTitleRequired       = errors.New("title required")
	ErrTitleTooLong        = errors.New("title too long")
	ErrAmountNotPositive   = errors.New("amount not positive")
	ErrAmountTooLarge      = errors.New("amount too large")
	ErrDueDateRequired     = errors.New("due date required")
	ErrNotesTooLong        = errors.New("notes too long")
	ErrInvalidFrequency    = errors.New("invalid frequency")
	ErrInvalidReminderType = errors.New("invalid reminder type")
)

type PaymentInput struct {
	Title           string
	Amount          decimal.Decimal
	DueDate         time.Time
	Category        string
	Frequency       string
	Notes           string
	ReminderEnabled bool
	ReminderTypes   []string
}

// NormalizePaymentInput trims and canonicalizes an input and rejects
// it with a field sentinel when a rule is broken. Unknown categories
// are not an error: they fall back to Other, mirroring the read path.
func NormalizePaymentInput(input PaymentInput) (PaymentInput, error) {
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return input, ErrTitleRequired
	}
	if len(input.Title) > MaxTitleLength {
		return input, ErrTitleTooLong
	}

	if !input.Amount.IsPositive() {
		return input, ErrAmountNotPositive
	}
	if input.Amount.GreaterThan(MaxAmount) {
		return input, ErrAmountTooLarge
	}

	if input.DueDate.IsZero() {
		return input, ErrDueDateRequired
	}

	input.Category = models.NormalizeCategory(strings.ToLower(strings.TrimSpace(input.Category)))

	input.Frequency = strings.ToLower(strings.TrimSpace(input.Frequency))
	if input.Frequency == "" {
		input.Frequency = models.FrequencyOneTime
	}
	if !IsValidFrequency(input.Frequency) {
		return input, ErrInvalidFrequency
	}

	input.Notes = strings.TrimSpace(input.Notes)
	if len(input.Notes) > MaxNotesLength {
		return input, ErrNotesTooLong
	}

	normalizedTypes, err := NormalizeReminderTypes(input.ReminderTypes)
	if err != nil {
		return input, err
	}
	input.ReminderTypes = normalizedTypes

	return input, nil
}

func IsValidFrequency(frequency string) bool {
	switch frequency {
	case models.FrequencyOneTime, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
		return true
	default:
		return false
	}
}

// NormalizeReminderTypes deduplicates and reorders the requested
// types into declaration order; an unknown name is rejected.
func NormalizeReminderTypes(requested []string) ([]string, error) {
	wanted := make(map[string]bool, len(requested))
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, known := models.ReminderTypeOffset(name); !known {
			return nil, ErrInvalidReminderType
		}
		wanted[name] = true
	}

	normalized := make([]string, 0, len(wanted))
	for _, reminderType := range models.AllReminderTypes {
		if wanted[reminderType] {
			normalized = append(normalized, reminderType)
		}
	}
	return normalized, nil
}
