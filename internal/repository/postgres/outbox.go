package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigconnect/payments/internal/models"
)

type OutboxRepo struct {
	DB DBTX
}

const addEvent = `-- name: AddOutboxEvent
INSERT INTO notification_outbox (id, created_at, kind, payload)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, kind, payload, sent_at
`

func (r *OutboxRepo) Add(ctx context.Context, event models.OutboxEvent) (models.OutboxEvent, error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, addEvent, event.ID, event.CreatedAt, event.Kind, event.Payload)
	added, err := pgx.CollectOneRow(rows, rowToEvent)
	if err != nil {
		return added, fmt.Errorf("db error: %w", err)
	}

	return added, nil
}

// Unsent rows are locked with SKIP LOCKED so several dispatcher instances
// never publish the same event twice
const listUnsent = `-- name: ListUnsentEvents
SELECT id, created_at, kind, payload, sent_at
FROM notification_outbox
WHERE sent_at IS NULL
ORDER BY created_at
LIMIT $1
FOR UPDATE SKIP LOCKED
`

func (r *OutboxRepo) ListUnsent(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	rows, _ := r.DB.Query(ctx, listUnsent, limit)
	events, err := pgx.CollectRows(rows, rowToEvent)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return events, nil
}

const markSent = `-- name: MarkEventSent
UPDATE notification_outbox
SET sent_at = $2
WHERE id = $1 AND sent_at IS NULL
`

func (r *OutboxRepo) MarkSent(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, markSent, id, time.Now())
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errors.New("outbox event not found or already sent")
	}

	return nil
}

func rowToEvent(row pgx.CollectableRow) (models.OutboxEvent, error) {
	var e models.OutboxEvent
	err := row.Scan(&e.ID, &e.CreatedAt, &e.Kind, &e.Payload, &e.SentAt)
	return e, err
}
