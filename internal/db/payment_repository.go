package db

import (
	"time"

	"github.com/billow-app/billow/internal/models"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	database *gorm.DB
}

func NewPaymentRepository(database *gorm.DB) *PaymentRepository {
	return &PaymentRepository{database: database}
}

// FindByID loads a payment by id. Soft-deleted rows are treated as
// absent; the second return value reports whether a row was found.
func (repo *PaymentRepository) FindByID(paymentID string) (models.Payment, bool, error) {
	payment := models.Payment{}
	result := repo.database.
		Where("id = ? AND is_deleted = ?", paymentID, false).
		Limit(1).
		Find(&payment)
	if result.Error != nil {
		return models.Payment{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Payment{}, false, nil
	}
	return payment, true, nil
}

func (repo *PaymentRepository) ListByOwner(ownerID string) ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	if err := repo.database.
		Where("owner_id = ? AND is_deleted = ?", ownerID, false).
		Order("due_date ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// ListActive returns every non-deleted payment regardless of owner,
// for the status refresh sweep and boot-time reminder rearm.
func (repo *PaymentRepository) ListActive() ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	if err := repo.database.
		Where("is_deleted = ?", false).
		Order("due_date ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// ListUnsynced returns payments with local changes the remote has not
// confirmed. Soft-deleted rows are included: the remote needs them for
// reconciliation.
func (repo *PaymentRepository) ListUnsynced() ([]models.Payment, error) {
	payments := make([]models.Payment, 0)
	if err := repo.database.
		Where("is_synced = ?", false).
		Order("updated_at ASC, id ASC").
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

func (repo *PaymentRepository) Create(payment *models.Payment) error {
	return repo.database.Create(payment).Error
}

func (repo *PaymentRepository) Save(payment *models.Payment) error {
	return repo.database.Save(payment).Error
}

// UpdateStatus refreshes the cached status column without touching
// updated_at or the sync flag.
func (repo *PaymentRepository) UpdateStatus(paymentID string, status string) error {
	return repo.database.Model(&models.Payment{}).
		Where("id = ?", paymentID).
		UpdateColumn("status", status).Error
}

// MarkSynced flips is_synced only when the row has not been mutated
// since the pushed snapshot was read.
func (repo *PaymentRepository) MarkSynced(paymentID string, seenUpdatedAt time.Time) error {
	return repo.database.Model(&models.Payment{}).
		Where("id = ? AND updated_at = ?", paymentID, seenUpdatedAt).
		UpdateColumn("is_synced", true).Error
}
