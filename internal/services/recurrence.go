package services

import (
	"fmt"
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/teambition/rrule-go"
)

const (
	DefaultOccurrencePreview = 3
	MaxOccurrencePreview     = 12
)

// NextOccurrences previews when a recurring payment would fall due
// next: up to count occurrences strictly after the given instant.
// OneTime yields the due date itself while it is still in the future.
// Display only; the next occurrence is never created automatically.
func NextOccurrences(frequency string, dueDate time.Time, after time.Time, count int) ([]time.Time, error) {
	if count <= 0 {
		count = DefaultOccurrencePreview
	}
	if count > MaxOccurrencePreview {
		count = MaxOccurrencePreview
	}

	var ruleFrequency rrule.Frequency
	switch frequency {
	case "", models.FrequencyOneTime:
		if dueDate.After(after) {
			return []time.Time{dueDate}, nil
		}
		return []time.Time{}, nil
	case models.FrequencyWeekly:
		ruleFrequency = rrule.WEEKLY
	case models.FrequencyMonthly:
		ruleFrequency = rrule.MONTHLY
	case models.FrequencyYearly:
		ruleFrequency = rrule.YEARLY
	default:
		return nil, ErrInvalidFrequency
	}

	rule, err := rrule.NewRRule(rrule.ROption{Freq: ruleFrequency, Dtstart: dueDate})
	if err != nil {
		return nil, fmt.Errorf("build recurrence rule: %w", err)
	}

	occurrences := make([]time.Time, 0, count)
	cursor := after
	for len(occurrences) < count {
		occurrence := rule.After(cursor, false)
		if occurrence.IsZero() {
			break
		}
		occurrences = append(occurrences, occurrence)
		cursor = occurrence
	}
	return occurrences, nil
}
