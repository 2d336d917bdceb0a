package services

import (
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/shopspring/decimal"
)

// Summary aggregates an owner's non-deleted payments: counts per
// derived status, money totals, and the next payment coming due.
type Summary struct {
	UpcomingCount int             `json:"upcoming_count"`
	OverdueCount  int             `json:"overdue_count"`
	PaidCount     int             `json:"paid_count"`
	TotalUpcoming decimal.Decimal `json:"total_upcoming"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	DueThisMonth  decimal.Decimal `json:"due_this_month"`
	NextDue       *models.Payment `json:"next_due,omitempty"`
}

// BuildSummary assumes the given payments carry freshly derived
// statuses; it never re-derives.
func BuildSummary(payments []models.Payment, now time.Time) Summary {
	summary := Summary{
		TotalUpcoming: decimal.Zero,
		TotalOverdue:  decimal.Zero,
		DueThisMonth:  decimal.Zero,
	}

	var nextDue *models.Payment
	for index := range payments {
		payment := payments[index]

		switch payment.Status {
		case models.StatusPaid:
			summary.PaidCount++
		case models.StatusOverdue:
			summary.OverdueCount++
			summary.TotalOverdue = summary.TotalOverdue.Add(payment.Amount)
		default:
			summary.UpcomingCount++
			summary.TotalUpcoming = summary.TotalUpcoming.Add(payment.Amount)
			if nextDue == nil || payment.DueDate.Before(nextDue.DueDate) {
				candidate := payment
				nextDue = &candidate
			}
		}

		if payment.Status != models.StatusPaid && sameMonth(payment.DueDate, now) {
			summary.DueThisMonth = summary.DueThisMonth.Add(payment.Amount)
		}
	}

	summary.NextDue = nextDue
	return summary
}

func sameMonth(value time.Time, reference time.Time) bool {
	localized := value.In(reference.Location())
	return localized.Year() == reference.Year() && localized.Month() == reference.Month()
}
