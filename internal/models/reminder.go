package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

const (
	ReminderOneDayBefore     = "one_day_before"
	ReminderThreeHoursBefore = "three_hours_before"
	ReminderOnDueDate        = "on_due_date"
)

// Declaration order is the canonical order for generated reminders
// and for the persisted comma-joined list.
var AllReminderTypes = []string{
	ReminderOneDayBefore,
	ReminderThreeHoursBefore,
	ReminderOnDueDate,
}

var reminderTypeOffsets = map[string]time.Duration{
	ReminderOneDayBefore:     24 * time.Hour,
	ReminderThreeHoursBefore: 3 * time.Hour,
	ReminderOnDueDate:        0,
}

func ReminderTypeOffset(reminderType string) (time.Duration, bool) {
	offset, ok := reminderTypeOffsets[reminderType]
	return offset, ok
}

// ReminderTypeList persists as a comma-joined list of type names.
type ReminderTypeList []string

func (list ReminderTypeList) Value() (driver.Value, error) {
	return strings.Join(list, ","), nil
}

func (list *ReminderTypeList) Scan(value any) error {
	var raw string
	switch typed := value.(type) {
	case nil:
		*list = nil
		return nil
	case string:
		raw = typed
	case []byte:
		raw = string(typed)
	default:
		return fmt.Errorf("unsupported reminder type list value %T", value)
	}

	if raw == "" {
		*list = nil
		return nil
	}
	*list = strings.Split(raw, ",")
	return nil
}

func (list ReminderTypeList) Contains(reminderType string) bool {
	for _, value := range list {
		if value == reminderType {
			return true
		}
	}
	return false
}

type Reminder struct {
	ID             string    `gorm:"primaryKey" json:"id"`
	PaymentID      string    `gorm:"not null;index" json:"payment_id"`
	ScheduledTime  time.Time `gorm:"not null;index" json:"scheduled_time"`
	Type           string    `gorm:"not null" json:"type"`
	NotificationID int32     `gorm:"not null" json:"notification_id"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	HasTriggered   bool      `gorm:"not null;default:false" json:"has_triggered"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
}
