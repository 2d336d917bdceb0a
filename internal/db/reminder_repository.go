package db

import (
	"time"

	"github.com/billow-app/billow/internal/models"
	"gorm.io/gorm"
)

type ReminderRepository struct {
	database *gorm.DB
}

func NewReminderRepository(database *gorm.DB) *ReminderRepository {
	return &ReminderRepository{database: database}
}

func (repo *ReminderRepository) ListByPayment(paymentID string) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	if err := repo.database.
		Where("payment_id = ?", paymentID).
		Order("scheduled_time ASC, id ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) Create(reminder *models.Reminder) error {
	return repo.database.Create(reminder).Error
}

func (repo *ReminderRepository) DeleteByPayment(paymentID string) error {
	return repo.database.Where("payment_id = ?", paymentID).Delete(&models.Reminder{}).Error
}

// ListPending returns active, untriggered reminders scheduled after
// the given instant, for boot-time scheduler rearm.
func (repo *ReminderRepository) ListPending(after time.Time) ([]models.Reminder, error) {
	reminders := make([]models.Reminder, 0)
	if err := repo.database.
		Where("is_active = ? AND has_triggered = ? AND scheduled_time > ?", true, false, after).
		Order("scheduled_time ASC, id ASC").
		Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

func (repo *ReminderRepository) MarkTriggeredByNotificationID(notificationID int32) error {
	return repo.database.Model(&models.Reminder{}).
		Where("notification_id = ?", notificationID).
		UpdateColumn("has_triggered", true).Error
}
