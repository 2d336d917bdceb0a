package notify

import (
	"context"
	"log"
	"sync"
	"time"
)

// Clock abstracts time for the dispatcher so tests can move it.
type Clock interface {
	Now() time.Time
}

// TriggerRecorder marks a reminder row as fired once its notification
// went out.
type TriggerRecorder interface {
	MarkTriggeredByNotificationID(notificationID int32) error
}

type scheduledNotification struct {
	at    time.Time
	title string
	body  string
}

// LocalScheduler keeps armed notifications in memory and fires the due
// ones through a Sender on a poll tick. ScheduleAt and Cancel are
// idempotent so reminder reconciliation can replay them freely.
type LocalScheduler struct {
	sender   Sender
	recorder TriggerRecorder
	clock    Clock

	mu    sync.Mutex
	armed map[int32]scheduledNotification
}

func NewLocalScheduler(sender Sender, recorder TriggerRecorder, clock Clock) *LocalScheduler {
	if sender == nil {
		sender = LogSender{}
	}
	return &LocalScheduler{
		sender:   sender,
		recorder: recorder,
		clock:    clock,
		armed:    make(map[int32]scheduledNotification),
	}
}

// ScheduleAt arms the notification for the given id, replacing any
// earlier entry under the same id.
func (scheduler *LocalScheduler) ScheduleAt(_ context.Context, notificationID int32, at time.Time, title string, body string) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	scheduler.armed[notificationID] = scheduledNotification{at: at, title: title, body: body}
	return nil
}

// Cancel disarms the notification. Unknown ids are a no-op.
func (scheduler *LocalScheduler) Cancel(_ context.Context, notificationID int32) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	delete(scheduler.armed, notificationID)
	return nil
}

func (scheduler *LocalScheduler) ArmedCount() int {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	return len(scheduler.armed)
}

// Start polls for due notifications until ctx is done.
func (scheduler *LocalScheduler) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()

		scheduler.FireDue(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				scheduler.FireDue(ctx)
			}
		}
	}()
}

// FireDue delivers every armed notification whose time has come and
// records the trigger on the reminder row. A delivery failure keeps
// the notification armed for the next tick.
func (scheduler *LocalScheduler) FireDue(ctx context.Context) int {
	now := scheduler.clock.Now()

	scheduler.mu.Lock()
	due := make(map[int32]scheduledNotification)
	for notificationID, entry := range scheduler.armed {
		if entry.at.After(now) {
			continue
		}
		due[notificationID] = entry
		delete(scheduler.armed, notificationID)
	}
	scheduler.mu.Unlock()

	fired := 0
	for notificationID, entry := range due {
		if err := scheduler.sender.Send(ctx, entry.title, entry.body); err != nil {
			log.Printf("notify: send notification %d failed: %v", notificationID, err)
			scheduler.rearm(notificationID, entry)
			continue
		}
		fired++

		if scheduler.recorder == nil {
			continue
		}
		if err := scheduler.recorder.MarkTriggeredByNotificationID(notificationID); err != nil {
			log.Printf("notify: record trigger for notification %d failed: %v", notificationID, err)
		}
	}
	return fired
}

func (scheduler *LocalScheduler) rearm(notificationID int32, entry scheduledNotification) {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if _, exists := scheduler.armed[notificationID]; !exists {
		scheduler.armed[notificationID] = entry
	}
}
