package notification

import (
	"context"
	"time"

	"github.com/gigconnect/payments/internal/logger"
	"github.com/gigconnect/payments/internal/repository"
)

// Dispatcher drains the notification outbox and hands events to the
// publisher. It runs strictly after ledger commits: a failed publish is
// logged and retried on the next tick, it can never roll back a balance
// change. Several instances may run at once, the outbox query skips rows
// locked by the others.
type Dispatcher struct {
	storage   repository.Storage
	publisher Publisher
	logger    logger.Logger

	interval  time.Duration
	batchSize int
}

func NewDispatcher(storage repository.Storage, publisher Publisher, l logger.Logger, interval time.Duration, batchSize int) *Dispatcher {
	if interval <= 0 {
		interval = time.Second
	}
	if batchSize <= 0 {
		batchSize = 100
	}

	return &Dispatcher{
		storage:   storage,
		publisher: publisher,
		logger:    l,
		interval:  interval,
		batchSize: batchSize,
	}
}

// Run starts the poller and returns a channel closed when it stops
func (d *Dispatcher) Run(ctx context.Context) <-chan struct{} {
	stopped := make(chan struct{})
	d.logger.Debug("Starting notification dispatcher", "interval", d.interval, "batch_size", d.batchSize)

	go func() {
		defer close(stopped)

		ticker := time.NewTicker(d.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				d.logger.Debug("Notification dispatcher stopped by context")
				return

			case <-ticker.C:
				if err := d.dispatchBatch(ctx); err != nil {
					d.logger.Error("Failed to dispatch notifications", "error", err)
				}
			}
		}
	}()

	return stopped
}

func (d *Dispatcher) dispatchBatch(ctx context.Context) error {
	return d.storage.InTx(ctx, func(st repository.Storage) error {
		events, err := st.Outbox().ListUnsent(ctx, d.batchSize)
		if err != nil {
			return err
		}

		for _, event := range events {
			if err := d.publisher.Publish(ctx, event.Kind, event.Payload); err != nil {
				// Leave the row unsent, the next tick retries it
				d.logger.Warn("Failed to publish event", "kind", event.Kind, "event_id", event.ID, "error", err)
				continue
			}

			if err := st.Outbox().MarkSent(ctx, event.ID); err != nil {
				return err
			}

			d.logger.Debug("Event published", "kind", event.Kind, "event_id", event.ID)
		}

		return nil
	})
}
