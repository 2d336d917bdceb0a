package notify

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubClock struct {
	now time.Time
}

func (clock stubClock) Now() time.Time {
	return clock.now
}

type sentNotification struct {
	title string
	body  string
}

type senderStub struct {
	sent    []sentNotification
	sendErr error
}

func (stub *senderStub) Send(_ context.Context, title string, body string) error {
	if stub.sendErr != nil {
		return stub.sendErr
	}
	stub.sent = append(stub.sent, sentNotification{title: title, body: body})
	return nil
}

type triggerRecorderStub struct {
	recorded  []int32
	recordErr error
}

func (stub *triggerRecorderStub) MarkTriggeredByNotificationID(notificationID int32) error {
	if stub.recordErr != nil {
		return stub.recordErr
	}
	stub.recorded = append(stub.recorded, notificationID)
	return nil
}

func TestFireDueDeliversOnlyElapsedNotifications(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	sender := &senderStub{}
	recorder := &triggerRecorderStub{}
	scheduler := NewLocalScheduler(sender, recorder, stubClock{now: now})

	ctx := context.Background()
	if err := scheduler.ScheduleAt(ctx, 7, now.Add(-time.Minute), "Utilities payment reminder", `"Internet bill" is due today.`); err != nil {
		t.Fatalf("schedule due: %v", err)
	}
	if err := scheduler.ScheduleAt(ctx, 8, now.Add(time.Hour), "Rent payment reminder", `"March rent" is due tomorrow.`); err != nil {
		t.Fatalf("schedule future: %v", err)
	}

	fired := scheduler.FireDue(ctx)

	if fired != 1 {
		t.Fatalf("expected one fired notification, got %d", fired)
	}
	if len(sender.sent) != 1 || sender.sent[0].title != "Utilities payment reminder" {
		t.Fatalf("unexpected deliveries: %+v", sender.sent)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0] != 7 {
		t.Fatalf("expected trigger recorded for 7, got %v", recorder.recorded)
	}
	if scheduler.ArmedCount() != 1 {
		t.Fatalf("expected the future notification to stay armed, got %d", scheduler.ArmedCount())
	}
}

func TestScheduleAtReplacesEntryForSameID(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	sender := &senderStub{}
	scheduler := NewLocalScheduler(sender, nil, stubClock{now: now})

	ctx := context.Background()
	if err := scheduler.ScheduleAt(ctx, 7, now.Add(-time.Minute), "old", "old body"); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := scheduler.ScheduleAt(ctx, 7, now.Add(time.Hour), "new", "new body"); err != nil {
		t.Fatalf("reschedule: %v", err)
	}

	if fired := scheduler.FireDue(ctx); fired != 0 {
		t.Fatalf("expected rescheduled notification to wait, fired %d", fired)
	}
	if scheduler.ArmedCount() != 1 {
		t.Fatalf("expected one armed notification, got %d", scheduler.ArmedCount())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	scheduler := NewLocalScheduler(&senderStub{}, nil, stubClock{now: now})

	ctx := context.Background()
	if err := scheduler.Cancel(ctx, 99); err != nil {
		t.Fatalf("expected cancel of unknown id to be a no-op, got %v", err)
	}

	if err := scheduler.ScheduleAt(ctx, 7, now.Add(-time.Minute), "title", "body"); err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if err := scheduler.Cancel(ctx, 7); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := scheduler.Cancel(ctx, 7); err != nil {
		t.Fatalf("expected repeated cancel to be a no-op, got %v", err)
	}

	if fired := scheduler.FireDue(ctx); fired != 0 {
		t.Fatalf("expected nothing to fire after cancel, fired %d", fired)
	}
}

func TestFireDueKeepsNotificationArmedWhenDeliveryFails(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	sender := &senderStub{sendErr: errors.New("telegram down")}
	recorder := &triggerRecorderStub{}
	scheduler := NewLocalScheduler(sender, recorder, stubClock{now: now})

	ctx := context.Background()
	if err := scheduler.ScheduleAt(ctx, 7, now.Add(-time.Minute), "title", "body"); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if fired := scheduler.FireDue(ctx); fired != 0 {
		t.Fatalf("expected failed delivery not to count, fired %d", fired)
	}
	if scheduler.ArmedCount() != 1 {
		t.Fatalf("expected notification re-armed for the next tick, got %d", scheduler.ArmedCount())
	}
	if len(recorder.recorded) != 0 {
		t.Fatalf("expected no trigger recorded on failure, got %v", recorder.recorded)
	}

	sender.sendErr = nil
	if fired := scheduler.FireDue(ctx); fired != 1 {
		t.Fatalf("expected retry to deliver, fired %d", fired)
	}
	if scheduler.ArmedCount() != 0 {
		t.Fatalf("expected empty schedule after delivery, got %d", scheduler.ArmedCount())
	}
}

func TestFireDueDeliverySurvivesRecorderFailure(t *testing.T) {
	now := time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
	sender := &senderStub{}
	recorder := &triggerRecorderStub{recordErr: errors.New("database locked")}
	scheduler := NewLocalScheduler(sender, recorder, stubClock{now: now})

	ctx := context.Background()
	if err := scheduler.ScheduleAt(ctx, 7, now.Add(-time.Minute), "title", "body"); err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if fired := scheduler.FireDue(ctx); fired != 1 {
		t.Fatalf("expected delivery despite recorder failure, fired %d", fired)
	}
	if scheduler.ArmedCount() != 0 {
		t.Fatalf("expected delivered notification disarmed, got %d", scheduler.ArmedCount())
	}
}

func TestSenderFromEnvSelection(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("TELEGRAM_CHAT_ID", "")
	if _, ok := SenderFromEnv().(LogSender); !ok {
		t.Fatal("expected log sender without telegram credentials")
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	if _, ok := SenderFromEnv().(LogSender); !ok {
		t.Fatal("expected log sender with only a bot token")
	}

	t.Setenv("TELEGRAM_CHAT_ID", "42")
	if _, ok := SenderFromEnv().(*TelegramSender); !ok {
		t.Fatal("expected telegram sender with full credentials")
	}
}
