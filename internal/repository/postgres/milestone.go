package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/models"
)

type MilestoneRepo struct {
	DB DBTX
}

const getMilestone = `-- name: GetMilestone
SELECT id, project_id, milestone_index, milestone_title, amount, status, released_at, created_at
FROM milestone_payments
WHERE project_id = $1 AND milestone_index = $2
`

func (r *MilestoneRepo) Get(ctx context.Context, projectID uuid.UUID, index int) (models.MilestonePayment, error) {
	rows, _ := r.DB.Query(ctx, getMilestone, projectID, index)
	m, err := pgx.CollectOneRow(rows, rowToMilestone)

	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, pgx.ErrNoRows):
		return m, apperrors.ErrMilestoneNotFound
	default:
		return m, fmt.Errorf("db error: %w", err)
	}
}

// The WHERE clause on the conflict update makes a released row immutable:
// a second release attempt matches no row and surfaces as already released.
// Together with the unique (project_id, milestone_index) constraint this
// enforces idempotency at the storage layer, not only in service code.
const upsertReleased = `-- name: UpsertMilestoneReleased
INSERT INTO milestone_payments (id, project_id, milestone_index, milestone_title, amount, status, released_at, created_at)
VALUES ($1, $2, $3, $4, $5, 'RELEASED', $6, $7)
ON CONFLICT (project_id, milestone_index) DO UPDATE
SET milestone_title = EXCLUDED.milestone_title,
    amount = EXCLUDED.amount,
    status = 'RELEASED',
    released_at = EXCLUDED.released_at
WHERE milestone_payments.status <> 'RELEASED'
RETURNING id, project_id, milestone_index, milestone_title, amount, status, released_at, created_at
`

func (r *MilestoneRepo) UpsertReleased(ctx context.Context, m models.MilestonePayment) (models.MilestonePayment, error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, upsertReleased,
		m.ID, m.ProjectID, m.MilestoneIndex, m.MilestoneTitle, m.Amount, m.ReleasedAt, m.CreatedAt,
	)
	released, err := pgx.CollectOneRow(rows, rowToMilestone)

	switch {
	case err == nil:
		return released, nil
	case errors.Is(err, pgx.ErrNoRows):
		return released, apperrors.ErrMilestoneAlreadyReleased
	default:
		return released, fmt.Errorf("db error: %w", err)
	}
}

const listMilestones = `-- name: ListMilestones
SELECT id, project_id, milestone_index, milestone_title, amount, status, released_at, created_at
FROM milestone_payments
WHERE project_id = $1
ORDER BY milestone_index
`

func (r *MilestoneRepo) ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.MilestonePayment, error) {
	rows, _ := r.DB.Query(ctx, listMilestones, projectID)
	milestones, err := pgx.CollectRows(rows, rowToMilestone)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return milestones, nil
}

func rowToMilestone(row pgx.CollectableRow) (models.MilestonePayment, error) {
	var m models.MilestonePayment
	err := row.Scan(&m.ID, &m.ProjectID, &m.MilestoneIndex, &m.MilestoneTitle, &m.Amount, &m.Status, &m.ReleasedAt, &m.CreatedAt)
	return m, err
}
