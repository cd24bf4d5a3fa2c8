// file: services/worker.go
package services

import (
	"context"
	"time"

	"founders-fest/logger"
	"founders-fest/models"
)

// DueDeliveries lists deliveries waiting for another attempt.
type DueDeliveries interface {
	DueForRetry(ctx context.Context, now time.Time, limit int) ([]models.Delivery, error)
}

// DeliveryWorker re-sends deliveries left in the retrying state.
type DeliveryWorker struct {
	due          DueDeliveries
	notifier     *TicketNotifier
	pollInterval time.Duration
	batchSize    int
	now          func() time.Time
}

// NewDeliveryWorker creates a worker polling every pollInterval.
func NewDeliveryWorker(due DueDeliveries, notifier *TicketNotifier, pollInterval time.Duration) *DeliveryWorker {
	if pollInterval <= 0 {
		pollInterval = 30 * time.Second
	}
	return &DeliveryWorker{
		due:          due,
		notifier:     notifier,
		pollInterval: pollInterval,
		batchSize:    10,
		now:          time.Now,
	}
}

// Start processes due deliveries until ctx is cancelled.
func (w *DeliveryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	logger.Info.Printf("[DeliveryWorker] Started (poll=%s, batch=%d)", w.pollInterval, w.batchSize)
	for {
		select {
		case <-ctx.Done():
			logger.Info.Println("[DeliveryWorker] Stopped")
			return
		case <-ticker.C:
			w.ProcessDue(ctx)
		}
	}
}

// ProcessDue makes one attempt for each due delivery and returns how many were tried.
func (w *DeliveryWorker) ProcessDue(ctx context.Context) int {
	rows, err := w.due.DueForRetry(ctx, w.now().UTC(), w.batchSize)
	if err != nil {
		logger.Error.Printf("[DeliveryWorker] Failed to fetch due deliveries: %v", err)
		return 0
	}
	for i := range rows {
		_ = w.notifier.Attempt(ctx, &rows[i])
	}
	if len(rows) > 0 {
		logger.Debug.Printf("[DeliveryWorker] Processed %d deliveries", len(rows))
	}
	return len(rows)
}
