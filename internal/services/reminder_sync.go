package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/billow-app/billow/internal/models"
)

// ErrReminderSyncIncomplete is the secondary-warning error: the
// payment mutation it followed has already committed, only the
// reminder side needs attention.
var ErrReminderSyncIncomplete = errors.New("reminder sync incomplete")

const defaultScheduleTimeout = 5 * time.Second

type ReminderStore interface {
	ListByPayment(paymentID string) ([]models.Reminder, error)
	Create(reminder *models.Reminder) error
	DeleteByPayment(paymentID string) error
	ListPending(after time.Time) ([]models.Reminder, error)
}

type NotificationScheduler interface {
	ScheduleAt(ctx context.Context, notificationID int32, at time.Time, title string, body string) error
	Cancel(ctx context.Context, notificationID int32) error
}

// ReminderSyncService reconciles a payment's reminder rows and its
// scheduled notifications with the payment's current state.
type ReminderSyncService struct {
	reminders       ReminderStore
	scheduler       NotificationScheduler
	clock           Clock
	scheduleTimeout time.Duration
}

func NewReminderSyncService(reminders ReminderStore, scheduler NotificationScheduler, clock Clock) *ReminderSyncService {
	return &ReminderSyncService{
		reminders:       reminders,
		scheduler:       scheduler,
		clock:           clock,
		scheduleTimeout: defaultScheduleTimeout,
	}
}

// SyncPayment tears down every reminder the payment has, then plans
// and schedules a fresh set unless the payment is deleted, paid, or
// has reminders disabled. Cancellation is best-effort; persistence or
// scheduling failures are reported as ErrReminderSyncIncomplete, never
// as a fatal error, because the payment mutation already committed.
func (service *ReminderSyncService) SyncPayment(ctx context.Context, payment *models.Payment) error {
	existing, err := service.reminders.ListByPayment(payment.ID)
	if err != nil {
		log.Printf("reminders: list existing for payment %s: %v", payment.ID, err)
		existing = nil
	}

	for _, reminder := range existing {
		if err := service.cancelScheduled(ctx, reminder.NotificationID); err != nil {
			log.Printf("reminders: cancel notification %d for payment %s: %v", reminder.NotificationID, payment.ID, err)
		}
	}

	if err := service.reminders.DeleteByPayment(payment.ID); err != nil {
		log.Printf("reminders: delete rows for payment %s: %v", payment.ID, err)
		return fmt.Errorf("%w: delete existing reminders: %v", ErrReminderSyncIncomplete, err)
	}

	if payment.IsDeleted || payment.Status == models.StatusPaid || !payment.ReminderEnabled {
		return nil
	}

	planned := PlanReminders(payment.ID, payment.DueDate, payment.ReminderTypes, service.clock.Now())

	failures := 0
	for index := range planned {
		reminder := &planned[index]
		if err := service.reminders.Create(reminder); err != nil {
			log.Printf("reminders: persist %s reminder for payment %s: %v", reminder.Type, payment.ID, err)
			failures++
			continue
		}

		title, body := ReminderMessage(*payment, reminder.Type)
		if err := service.scheduleAt(ctx, reminder.NotificationID, reminder.ScheduledTime, title, body); err != nil {
			log.Printf("reminders: schedule notification %d for payment %s: %v", reminder.NotificationID, payment.ID, err)
			failures++
		}
	}

	if failures > 0 {
		return fmt.Errorf("%w: %d of %d reminders not fully scheduled", ErrReminderSyncIncomplete, failures, len(planned))
	}
	return nil
}

// RearmAll re-schedules every active, untriggered, still-future
// reminder after a restart. The in-memory scheduler forgets its armed
// set on shutdown; the rows survive and carry enough to rebuild it.
func (service *ReminderSyncService) RearmAll(ctx context.Context, payments []models.Payment) (int, error) {
	byID := make(map[string]models.Payment, len(payments))
	for _, payment := range payments {
		byID[payment.ID] = payment
	}

	pending, err := service.reminders.ListPending(service.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("list pending reminders: %w", err)
	}

	armed := 0
	for _, reminder := range pending {
		payment, known := byID[reminder.PaymentID]
		if !known {
			continue
		}
		if payment.IsDeleted || payment.Status == models.StatusPaid || !payment.ReminderEnabled {
			continue
		}

		title, body := ReminderMessage(payment, reminder.Type)
		if err := service.scheduleAt(ctx, reminder.NotificationID, reminder.ScheduledTime, title, body); err != nil {
			log.Printf("reminders: rearm notification %d for payment %s: %v", reminder.NotificationID, payment.ID, err)
			continue
		}
		armed++
	}
	return armed, nil
}

func (service *ReminderSyncService) scheduleAt(ctx context.Context, notificationID int32, at time.Time, title string, body string) error {
	ctx, cancel := context.WithTimeout(ctx, service.scheduleTimeout)
	defer cancel()
	return service.scheduler.ScheduleAt(ctx, notificationID, at, title, body)
}

func (service *ReminderSyncService) cancelScheduled(ctx context.Context, notificationID int32) error {
	ctx, cancel := context.WithTimeout(ctx, service.scheduleTimeout)
	defer cancel()
	return service.scheduler.Cancel(ctx, notificationID)
}

// ReminderMessage renders the notification title and body for a
// reminder. The body names the payment and its category, never the
// amount.
func ReminderMessage(payment models.Payment, reminderType string) (string, string) {
	label := models.CategoryLabel(models.NormalizeCategory(payment.Category))
	title := fmt.Sprintf("%s payment reminder", label)

	switch reminderType {
	case models.ReminderOneDayBefore:
		return title, fmt.Sprintf("%q is due tomorrow.", payment.Title)
	case models.ReminderThreeHoursBefore:
		return title, fmt.Sprintf("%q is due in a few hours.", payment.Title)
	default:
		return title, fmt.Sprintf("%q is due today.", payment.Title)
	}
}
