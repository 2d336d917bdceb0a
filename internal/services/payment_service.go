package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/google/uuid"
)

var ErrPaymentNotFound = errors.New("payment not found")

type PaymentStore interface {
	FindByID(paymentID string) (models.Payment, bool, error)
	ListByOwner(ownerID string) ([]models.Payment, error)
	ListActive() ([]models.Payment, error)
	Create(payment *models.Payment) error
	Save(payment *models.Payment) error
	UpdateStatus(paymentID string, status string) error
}

type ReminderSynchronizer interface {
	SyncPayment(ctx context.Context, payment *models.Payment) error
}

// PaymentMutation is the outcome of a committed payment change. A
// non-nil SyncWarning means the payment persisted but its reminders
// did not fully reconcile; it is never a failure of the mutation.
type PaymentMutation struct {
	Payment     models.Payment
	SyncWarning error
}

// PaymentService owns the payment lifecycle: validation, identity,
// status derivation, persistence, and the reminder sync that follows
// every mutation. Mutations on the same payment id are serialized so
// their teardown/recreate reminder steps cannot interleave.
type PaymentService struct {
	payments  PaymentStore
	reminders ReminderSynchronizer
	clock     Clock

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPaymentService(payments PaymentStore, reminders ReminderSynchronizer, clock Clock) *PaymentService {
	return &PaymentService{
		payments:  payments,
		reminders: reminders,
		clock:     clock,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (service *PaymentService) CreatePayment(ctx context.Context, ownerID string, input PaymentInput) (PaymentMutation, error) {
	normalized, err := NormalizePaymentInput(input)
	if err != nil {
		return PaymentMutation{}, err
	}

	if ownerID == "" {
		ownerID = models.GuestOwnerID
	}

	now := service.clock.Now()
	payment := models.Payment{
		ID:              uuid.NewString(),
		OwnerID:         ownerID,
		Title:           normalized.Title,
		Amount:          normalized.Amount,
		DueDate:         normalized.DueDate,
		Category:        normalized.Category,
		Frequency:       normalized.Frequency,
		Notes:           normalized.Notes,
		Status:          DeriveStatus(normalized.DueDate, false, now),
		ReminderEnabled: normalized.ReminderEnabled,
		ReminderTypes:   models.ReminderTypeList(normalized.ReminderTypes),
		CreatedAt:       now,
		UpdatedAt:       now,
		IsSynced:        false,
	}

	lock := service.lockFor(payment.ID)
	lock.Lock()
	defer lock.Unlock()

	if err := service.payments.Create(&payment); err != nil {
		return PaymentMutation{}, fmt.Errorf("create payment: %w", err)
	}

	return PaymentMutation{Payment: payment, SyncWarning: service.reminders.SyncPayment(ctx, &payment)}, nil
}

func (service *PaymentService) UpdatePayment(ctx context.Context, ownerID string, paymentID string, input PaymentInput) (PaymentMutation, error) {
	normalized, err := NormalizePaymentInput(input)
	if err != nil {
		return PaymentMutation{}, err
	}

	lock := service.lockFor(paymentID)
	lock.Lock()
	defer lock.Unlock()

	payment, err := service.loadOwned(ownerID, paymentID)
	if err != nil {
		return PaymentMutation{}, err
	}

	now := service.clock.Now()
	payment.Title = normalized.Title
	payment.Amount = normalized.Amount
	payment.DueDate = normalized.DueDate
	payment.Category = normalized.Category
	payment.Frequency = normalized.Frequency
	payment.Notes = normalized.Notes
	payment.ReminderEnabled = normalized.ReminderEnabled
	payment.ReminderTypes = models.ReminderTypeList(normalized.ReminderTypes)
	payment.Status = DeriveStatus(payment.DueDate, payment.PaidAt != nil, now)
	payment.UpdatedAt = now
	payment.IsSynced = false

	if err := service.payments.Save(&payment); err != nil {
		return PaymentMutation{}, fmt.Errorf("update payment: %w", err)
	}

	return PaymentMutation{Payment: payment, SyncWarning: service.reminders.SyncPayment(ctx, &payment)}, nil
}

// DeletePayment is a soft delete: the row is kept for sync
// reconciliation but leaves every standard query, and its reminders
// are torn down.
func (service *PaymentService) DeletePayment(ctx context.Context, ownerID string, paymentID string) (PaymentMutation, error) {
	lock := service.lockFor(paymentID)
	lock.Lock()
	defer lock.Unlock()

	payment, err := service.loadOwned(ownerID, paymentID)
	if err != nil {
		return PaymentMutation{}, err
	}

	payment.IsDeleted = true
	payment.UpdatedAt = service.clock.Now()
	payment.IsSynced = false

	if err := service.payments.Save(&payment); err != nil {
		return PaymentMutation{}, fmt.Errorf("delete payment: %w", err)
	}

	return PaymentMutation{Payment: payment, SyncWarning: service.reminders.SyncPayment(ctx, &payment)}, nil
}

// SetPaid flips the explicit paid flag and re-derives status. Marking
// paid tears the payment's reminders down; marking unpaid rebuilds
// whatever is still in the future.
func (service *PaymentService) SetPaid(ctx context.Context, ownerID string, paymentID string, paid bool) (PaymentMutation, error) {
	lock := service.lockFor(paymentID)
	lock.Lock()
	defer lock.Unlock()

	payment, err := service.loadOwned(ownerID, paymentID)
	if err != nil {
		return PaymentMutation{}, err
	}

	now := service.clock.Now()
	if paid {
		paidAt := now
		payment.PaidAt = &paidAt
	} else {
		payment.PaidAt = nil
	}
	payment.Status = DeriveStatus(payment.DueDate, payment.PaidAt != nil, now)
	payment.UpdatedAt = now
	payment.IsSynced = false

	if err := service.payments.Save(&payment); err != nil {
		return PaymentMutation{}, fmt.Errorf("set paid: %w", err)
	}

	return PaymentMutation{Payment: payment, SyncWarning: service.reminders.SyncPayment(ctx, &payment)}, nil
}

func (service *PaymentService) GetPayment(ownerID string, paymentID string) (models.Payment, error) {
	payment, found, err := service.payments.FindByID(paymentID)
	if err != nil {
		return models.Payment{}, fmt.Errorf("load payment: %w", err)
	}
	if !found || payment.OwnerID != ownerID {
		return models.Payment{}, ErrPaymentNotFound
	}
	return service.refreshDerived(payment), nil
}

// ListPayments returns the owner's non-deleted payments with status
// re-derived, optionally narrowed to one status and one category.
func (service *PaymentService) ListPayments(ownerID string, statusFilter string, categoryFilter string) ([]models.Payment, error) {
	payments, err := service.payments.ListByOwner(ownerID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	filtered := make([]models.Payment, 0, len(payments))
	for _, payment := range payments {
		payment = service.refreshDerived(payment)
		if statusFilter != "" && payment.Status != statusFilter {
			continue
		}
		if categoryFilter != "" && payment.Category != categoryFilter {
			continue
		}
		filtered = append(filtered, payment)
	}
	return filtered, nil
}

// RefreshStatuses sweeps every non-deleted payment and rewrites the
// cached status column where the derived value drifted, so that
// store-level status queries stay truthful overnight.
func (service *PaymentService) RefreshStatuses() (int, error) {
	payments, err := service.payments.ListActive()
	if err != nil {
		return 0, fmt.Errorf("list payments: %w", err)
	}

	now := service.clock.Now()
	refreshed := 0
	for _, payment := range payments {
		derived := DeriveStatus(payment.DueDate, payment.PaidAt != nil, now)
		if derived == payment.Status {
			continue
		}
		if err := service.payments.UpdateStatus(payment.ID, derived); err != nil {
			log.Printf("payments: refresh status for %s: %v", payment.ID, err)
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// StartStatusRefresh runs the sweep on a ticker until ctx is done.
func (service *PaymentService) StartStatusRefresh(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refreshed, err := service.RefreshStatuses()
				if err != nil {
					log.Printf("payments: status sweep: %v", err)
					continue
				}
				if refreshed > 0 {
					log.Printf("payments: status sweep refreshed %d payments", refreshed)
				}
			}
		}
	}()
}

// loadOwned fetches a payment and hides rows belonging to other
// owners behind the not-found sentinel.
func (service *PaymentService) loadOwned(ownerID string, paymentID string) (models.Payment, error) {
	payment, found, err := service.payments.FindByID(paymentID)
	if err != nil {
		return models.Payment{}, fmt.Errorf("load payment: %w", err)
	}
	if !found || payment.OwnerID != ownerID {
		return models.Payment{}, ErrPaymentNotFound
	}
	return payment, nil
}

// refreshDerived re-derives status (and normalizes a stale category)
// on the way out of the store, refreshing the cached column
// best-effort when it disagrees.
func (service *PaymentService) refreshDerived(payment models.Payment) models.Payment {
	payment.Category = models.NormalizeCategory(payment.Category)

	derived := DeriveStatus(payment.DueDate, payment.PaidAt != nil, service.clock.Now())
	if derived != payment.Status {
		payment.Status = derived
		if err := service.payments.UpdateStatus(payment.ID, derived); err != nil {
			log.Printf("payments: refresh status for %s: %v", payment.ID, err)
		}
	}
	return payment
}

func (service *PaymentService) lockFor(paymentID string) *sync.Mutex {
	service.mu.Lock()
	defer service.mu.Unlock()

	lock, exists := service.locks[paymentID]
	if !exists {
		lock = &sync.Mutex{}
		service.locks[paymentID] = lock
	}
	return lock
}
