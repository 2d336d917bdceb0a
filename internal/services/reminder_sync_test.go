package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/billow-app/billow/internal/models"
	"github.com/shopspring/decimal"
)

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

type reminderStoreStub struct {
	byPayment  map[string][]models.Reminder
	listErr    error
	createErr  error
	deleteErr  error
	pendingErr error
}

func newReminderStoreStub() *reminderStoreStub {
	return &reminderStoreStub{byPayment: make(map[string][]models.Reminder)}
}

func (stub *reminderStoreStub) ListByPayment(paymentID string) ([]models.Reminder, error) {
	if stub.listErr != nil {
		return nil, stub.listErr
	}
	reminders := make([]models.Reminder, len(stub.byPayment[paymentID]))
	copy(reminders, stub.byPayment[paymentID])
	return reminders, nil
}

func (stub *reminderStoreStub) Create(reminder *models.Reminder) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	stub.byPayment[reminder.PaymentID] = append(stub.byPayment[reminder.PaymentID], *reminder)
	return nil
}

func (stub *reminderStoreStub) DeleteByPayment(paymentID string) error {
	if stub.deleteErr != nil {
		return stub.deleteErr
	}
	delete(stub.byPayment, paymentID)
	return nil
}

func (stub *reminderStoreStub) ListPending(after time.Time) ([]models.Reminder, error) {
	if stub.pendingErr != nil {
		return nil, stub.pendingErr
	}
	pending := make([]models.Reminder, 0)
	for _, reminders := range stub.byPayment {
		for _, reminder := range reminders {
			if reminder.IsActive && !reminder.HasTriggered && reminder.ScheduledTime.After(after) {
				pending = append(pending, reminder)
			}
		}
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].ScheduledTime.Before(pending[j].ScheduledTime)
	})
	return pending, nil
}

// recordingScheduler captures the order of scheduler calls and keeps
// an armed table keyed by notification id, like the real thing.
type recordingScheduler struct {
	calls       []string
	armed       map[int32]time.Time
	scheduleErr error
	cancelErr   error
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{armed: make(map[int32]time.Time)}
}

func (stub *recordingScheduler) ScheduleAt(ctx context.Context, notificationID int32, at time.Time, title string, body string) error {
	stub.calls = append(stub.calls, fmt.Sprintf("schedule:%d", notificationID))
	if stub.scheduleErr != nil {
		return stub.scheduleErr
	}
	stub.armed[notificationID] = at
	return nil
}

func (stub *recordingScheduler) Cancel(ctx context.Context, notificationID int32) error {
	stub.calls = append(stub.calls, fmt.Sprintf("cancel:%d", notificationID))
	if stub.cancelErr != nil {
		return stub.cancelErr
	}
	delete(stub.armed, notificationID)
	return nil
}

func syncTestPayment(paymentID string, dueDate time.Time) models.Payment {
	return models.Payment{
		ID:              paymentID,
		OwnerID:         "owner-1",
		Title:           "Internet bill",
		Amount:          decimal.NewFromInt(60),
		DueDate:         dueDate,
		Category:        models.CategoryUtilities,
		Frequency:       models.FrequencyMonthly,
		Status:          models.StatusUpcoming,
		ReminderEnabled: true,
		ReminderTypes:   models.ReminderTypeList{models.ReminderOneDayBefore, models.ReminderOnDueDate},
	}
}

func TestSyncPaymentIsIdempotentAcrossRepeatedCalls(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store := newReminderStoreStub()
	scheduler := newRecordingScheduler()
	service := NewReminderSyncService(store, scheduler, fixedClock{now: now})

	payment := syncTestPayment("pay-1", now.Add(72*time.Hour))

	if err := service.SyncPayment(context.Background(), &payment); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	firstRows, _ := store.ListByPayment("pay-1")
	if len(firstRows) != 2 {
		t.Fatalf("expected two reminders after first sync, got %d", len(firstRows))
	}

	// Simulate one having fired in the meantime.
	store.byPayment["pay-1"][0].HasTriggered = true

	if err := service.SyncPayment(context.Background(), &payment); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	secondRows, _ := store.ListByPayment("pay-1")
	if len(secondRows) != 2 {
		t.Fatalf("expected two reminders after second sync, got %d", len(secondRows))
	}
	for _, reminder := range secondRows {
		if reminder.HasTriggered {
			t.Fatal("expected regenerated reminders to start untriggered")
		}
		if !reminder.IsActive {
			t.Fatal("expected regenerated reminders to be active")
		}
	}

	if len(scheduler.armed) != 2 {
		t.Fatalf("expected two armed notifications, got %d", len(scheduler.armed))
	}
	for index := range firstRows {
		if firstRows[index].NotificationID != secondRows[index].NotificationID {
			t.Fatal("expected stable notification ids across syncs")
		}
	}
}

func TestSyncPaymentCancelsBeforeScheduling(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store := newReminderStoreStub()
	scheduler := newRecordingScheduler()
	service := NewReminderSyncService(store, scheduler, fixedClock{now: now})

	payment := syncTestPayment("pay-1", now.Add(72*time.Hour))

	if err := service.SyncPayment(context.Background(), &payment); err != nil {
		t.Fatalf("first sync: %v", err)
	}
	if err := service.SyncPayment(context.Background(), &payment); err != nil {
		t.Fatalf("second sync: %v", err)
	}

	// The second pass must cancel both existing handles before any
	// new schedule call.
	calls := scheduler.calls[2:]
	if len(calls) != 4 {
		t.Fatalf("expected four scheduler calls on second sync, got %v", calls)
	}
	for _, call := range calls[:2] {
		if !isCancelCall(call) {
			t.Fatalf("expected cancel calls first, got %v", calls)
		}
	}
	for _, call := range calls[2:] {
		if isCancelCall(call) {
			t.Fatalf("expected schedule calls after cancels, got %v", calls)
		}
	}
}

func isCancelCall(call string) bool {
	return len(call) > 6 && call[:6] == "cancel"
}

func TestSyncPaymentRemovesAllRemindersWhenPaid(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store := newReminderStoreStub()
	scheduler := newRecordingScheduler()
	service := NewReminderSyncService(store, scheduler, fixedClock{now: now})

	payment := syncTestPayment("pay-1", now.Add(72*time.Hour))
	if err := service.SyncPayment(context.Background(), &payment); err != nil {
		t.Fatalf("initial sync: %v", err)
	}

	payment.Status = models.StatusPaid
	if err := service.SyncPayment(context.Background(), &payment); err != nil {
		t.Fatalf("paid sync: %v", err)
	}

	rows, _ := store.ListByPayment("pay-1")
	if len(rows) != 0 {
		t.Fatalf("expected zero reminders for a paid payment, got %d", len(rows))
	}
	if len(scheduler.armed) != 0 {
		t.Fatalf("expected no armed notifications for a paid payment, got %d", len(scheduler.armed))
	}
}

func TestSyncPaymentSkipsDeletedAndDisabledPayments(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

	deleted := syncTestPayment("pay-deleted", now.Add(72*time.Hour))
	deleted.IsDeleted = true

	disabled := syncTestPayment("pay-disabled", now.Add(72*time.Hour))
	disabled.ReminderEnabled = false

	for _, payment := range []models.Payment{deleted, disabled} {
		store := newReminderStoreStub()
		scheduler := newRecordingScheduler()
		service := NewReminderSyncService(store, scheduler, fixedClock{now: now})

		target := payment
		if err := service.SyncPayment(context.Background(), &target); err != nil {
			t.Fatalf("sync %s: %v", payment.ID, err)
		}
		rows, _ := store.ListByPayment(payment.ID)
		if len(rows) != 0 {
			t.Fatalf("expected no reminders for %s, got %d", payment.ID, len(rows))
		}
	}
}

func TestSyncPaymentSchedulerFailureIsAWarning(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store := newReminderStoreStub()
	scheduler := newRecordingScheduler()
	scheduler.scheduleErr = errors.New("scheduler offline")
	service := NewReminderSyncService(store, scheduler, fixedClock{now: now})

	payment := syncTestPayment("pay-1", now.Add(72*time.Hour))

	err := service.SyncPayment(context.Background(), &payment)
	if !errors.Is(err, ErrReminderSyncIncomplete) {
		t.Fatalf("expected ErrReminderSyncIncomplete, got %v", err)
	}

	// Rows still persisted; only the external scheduling failed.
	rows, _ := store.ListByPayment("pay-1")
	if len(rows) != 2 {
		t.Fatalf("expected persisted reminders despite scheduler failure, got %d", len(rows))
	}
}

func TestSyncPaymentDeleteFailureWarnsWithoutCreating(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store := newReminderStoreStub()
	store.deleteErr = errors.New("disk full")
	scheduler := newRecordingScheduler()
	service := NewReminderSyncService(store, scheduler, fixedClock{now: now})

	payment := syncTestPayment("pay-1", now.Add(72*time.Hour))

	err := service.SyncPayment(context.Background(), &payment)
	if !errors.Is(err, ErrReminderSyncIncomplete) {
		t.Fatalf("expected ErrReminderSyncIncomplete, got %v", err)
	}
	rows, _ := store.ListByPayment("pay-1")
	if len(rows) != 0 {
		t.Fatalf("expected no new reminders after failed teardown, got %d", len(rows))
	}
}

func TestRearmAllSchedulesOnlyLiveFutureReminders(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	store := newReminderStoreStub()
	scheduler := newRecordingScheduler()
	service := NewReminderSyncService(store, scheduler, fixedClock{now: now})

	active := syncTestPayment("pay-active", now.Add(72*time.Hour))
	paid := syncTestPayment("pay-paid", now.Add(72*time.Hour))
	paid.Status = models.StatusPaid

	store.byPayment["pay-active"] = []models.Reminder{
		{ID: "r1", PaymentID: "pay-active", ScheduledTime: now.Add(48 * time.Hour), Type: models.ReminderOneDayBefore, NotificationID: 11, IsActive: true},
		{ID: "r2", PaymentID: "pay-active", ScheduledTime: now.Add(-time.Hour), Type: models.ReminderThreeHoursBefore, NotificationID: 12, IsActive: true},
		{ID: "r3", PaymentID: "pay-active", ScheduledTime: now.Add(72 * time.Hour), Type: models.ReminderOnDueDate, NotificationID: 13, IsActive: true, HasTriggered: true},
	}
	store.byPayment["pay-paid"] = []models.Reminder{
		{ID: "r4", PaymentID: "pay-paid", ScheduledTime: now.Add(48 * time.Hour), Type: models.ReminderOneDayBefore, NotificationID: 14, IsActive: true},
	}
	store.byPayment["pay-gone"] = []models.Reminder{
		{ID: "r5", PaymentID: "pay-gone", ScheduledTime: now.Add(48 * time.Hour), Type: models.ReminderOneDayBefore, NotificationID: 15, IsActive: true},
	}

	armed, err := service.RearmAll(context.Background(), []models.Payment{active, paid})
	if err != nil {
		t.Fatalf("rearm: %v", err)
	}
	if armed != 1 {
		t.Fatalf("expected exactly one rearmed notification, got %d", armed)
	}
	if _, ok := scheduler.armed[11]; !ok {
		t.Fatal("expected notification 11 to be rearmed")
	}
}
