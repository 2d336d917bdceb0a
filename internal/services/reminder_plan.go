package services

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/google/uuid"
)

// NotificationIDFor derives the external scheduler handle for a
// (payment, reminder type) pair: the first four bytes of a SHA-256
// digest folded into [1, MaxInt32]. The same pair always yields the
// same id, so re-scheduling overwrites instead of duplicating.
func NotificationIDFor(paymentID string, reminderType string) int32 {
	sum := sha256.Sum256([]byte(paymentID + ":" + reminderType))
	value := binary.BigEndian.Uint32(sum[:4]) % uint32(math.MaxInt32)
	return int32(value + 1)
}

// PlanReminders builds the reminder rows for a payment due at
// dueDate, one per enabled type in declaration order. Candidates
// whose scheduled time is not strictly after now are dropped
// silently; notifications are never delivered retroactively. An empty
// result is normal, not an error.
func PlanReminders(paymentID string, dueDate time.Time, enabledTypes models.ReminderTypeList, now time.Time) []models.Reminder {
	planned := make([]models.Reminder, 0, len(models.AllReminderTypes))
	for _, reminderType := range models.AllReminderTypes {
		if !enabledTypes.Contains(reminderType) {
			continue
		}

		offset, known := models.ReminderTypeOffset(reminderType)
		if !known {
			continue
		}

		scheduledTime := dueDate.Add(-offset)
		if !scheduledTime.After(now) {
			continue
		}

		planned = append(planned, models.Reminder{
			ID:             uuid.NewString(),
			PaymentID:      paymentID,
			ScheduledTime:  scheduledTime,
			Type:           reminderType,
			NotificationID: NotificationIDFor(paymentID, reminderType),
			IsActive:       true,
			HasTriggered:   false,
			CreatedAt:      now,
		})
	}
	return planned
}
