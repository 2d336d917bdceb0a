package services

import (
	"time"

	"github.com/billow-app/billow/internal/models"
)

// DeriveStatus computes a payment's lifecycle status from its due
// date and the explicit paid flag. An explicitly paid payment is Paid
// no matter the due date; otherwise the comparison is by calendar day
// in now's location: due strictly before today is Overdue, today or
// later is Upcoming. Pure and total; callers re-derive on every read
// because wall-clock time moves without writes.
func DeriveStatus(dueDate time.Time, explicitlyPaid bool, now time.Time) string {
	if explicitlyPaid {
		return models.StatusPaid
	}

	dueDay := DateAtLocation(dueDate, now.Location())
	today := DateAtLocation(now, now.Location())
	if dueDay.Before(today) {
		return models.StatusOverdue
	}
	return models.StatusUpcoming
}

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}
