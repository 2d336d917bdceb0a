package sync

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/shopspring/decimal"
)

// EncodePayment flattens a payment into the string record pushed to
// the remote store: RFC 3339 timestamps, the exact decimal amount
// string, and comma-joined reminder types.
func EncodePayment(payment models.Payment) map[string]string {
	paidAt := ""
	if payment.PaidAt != nil {
		paidAt = payment.PaidAt.Format(time.RFC3339Nano)
	}

	return map[string]string{
		"id":               payment.ID,
		"owner_id":         payment.OwnerID,
		"title":            payment.Title,
		"amount":           payment.Amount.String(),
		"due_date":         payment.DueDate.Format(time.RFC3339Nano),
		"category":         payment.Category,
		"frequency":        payment.Frequency,
		"notes":            payment.Notes,
		"status":           payment.Status,
		"reminder_enabled": strconv.FormatBool(payment.ReminderEnabled),
		"reminder_types":   strings.Join(payment.ReminderTypes, ","),
		"paid_at":          paidAt,
		"created_at":       payment.CreatedAt.Format(time.RFC3339Nano),
		"updated_at":       payment.UpdatedAt.Format(time.RFC3339Nano),
		"is_synced":        strconv.FormatBool(payment.IsSynced),
		"is_deleted":       strconv.FormatBool(payment.IsDeleted),
	}
}

// DecodePayment is the inverse of EncodePayment.
func DecodePayment(record map[string]string) (models.Payment, error) {
	amount, err := decimal.NewFromString(record["amount"])
	if err != nil {
		return models.Payment{}, fmt.Errorf("parse amount: %w", err)
	}

	dueDate, err := parseRecordTime(record, "due_date")
	if err != nil {
		return models.Payment{}, err
	}
	createdAt, err := parseRecordTime(record, "created_at")
	if err != nil {
		return models.Payment{}, err
	}
	updatedAt, err := parseRecordTime(record, "updated_at")
	if err != nil {
		return models.Payment{}, err
	}

	var paidAt *time.Time
	if record["paid_at"] != "" {
		parsed, err := parseRecordTime(record, "paid_at")
		if err != nil {
			return models.Payment{}, err
		}
		paidAt = &parsed
	}

	reminderEnabled, err := parseRecordBool(record, "reminder_enabled")
	if err != nil {
		return models.Payment{}, err
	}
	isSynced, err := parseRecordBool(record, "is_synced")
	if err != nil {
		return models.Payment{}, err
	}
	isDeleted, err := parseRecordBool(record, "is_deleted")
	if err != nil {
		return models.Payment{}, err
	}

	reminderTypes := models.ReminderTypeList{}
	if record["reminder_types"] != "" {
		reminderTypes = models.ReminderTypeList(strings.Split(record["reminder_types"], ","))
	}

	return models.Payment{
		ID:              record["id"],
		OwnerID:         record["owner_id"],
		Title:           record["title"],
		Amount:          amount,
		DueDate:         dueDate,
		Category:        record["category"],
		Frequency:       record["frequency"],
		Notes:           record["notes"],
		Status:          record["status"],
		PaidAt:          paidAt,
		ReminderEnabled: reminderEnabled,
		ReminderTypes:   reminderTypes,
		CreatedAt:       createdAt,
		UpdatedAt:       updatedAt,
		IsSynced:        isSynced,
		IsDeleted:       isDeleted,
	}, nil
}

func parseRecordTime(record map[string]string, key string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339Nano, record[key])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}

func parseRecordBool(record map[string]string, key string) (bool, error) {
	parsed, err := strconv.ParseBool(record[key])
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
