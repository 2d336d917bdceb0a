package sync

import (
	"context"
	"log"
	"time"

	"github.com/billow-app/billow/internal/models"
)

// UnsyncedSource lists locally mutated payments and records remote
// confirmation. MarkSynced takes the UpdatedAt the push saw so that a
// payment mutated mid-push stays unsynced.
type UnsyncedSource interface {
	ListUnsynced() ([]models.Payment, error)
	MarkSynced(paymentID string, seenUpdatedAt time.Time) error
}

// Worker pushes unsynced payments, soft-deleted ones included, to the
// remote store on a ticker. Failures are logged and retried on the
// next tick; the worker never blocks or fails a payment mutation.
type Worker struct {
	payments UnsyncedSource
	remote   RemoteStore
	interval time.Duration
}

func NewWorker(payments UnsyncedSource, remote RemoteStore, interval time.Duration) *Worker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Worker{
		payments: payments,
		remote:   remote,
		interval: interval,
	}
}

// Start flushes once right away, then on every tick until ctx is done.
func (worker *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(worker.interval)
	go func() {
		defer ticker.Stop()

		worker.Flush(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				worker.Flush(ctx)
			}
		}
	}()
}

// Flush pushes every unsynced payment once and returns how many the
// remote store confirmed.
func (worker *Worker) Flush(ctx context.Context) int {
	payments, err := worker.payments.ListUnsynced()
	if err != nil {
		log.Printf("sync: list unsynced payments: %v", err)
		return 0
	}

	pushed := 0
	for _, payment := range payments {
		if ctx.Err() != nil {
			return pushed
		}
		if err := worker.remote.PushPayment(ctx, EncodePayment(payment)); err != nil {
			log.Printf("sync: push payment %s: %v", payment.ID, err)
			continue
		}
		if err := worker.payments.MarkSynced(payment.ID, payment.UpdatedAt); err != nil {
			log.Printf("sync: mark payment %s synced: %v", payment.ID, err)
			continue
		}
		pushed++
	}

	if pushed > 0 {
		log.Printf("sync: pushed %d payments", pushed)
	}
	return pushed
}
