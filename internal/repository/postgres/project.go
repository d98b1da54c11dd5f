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

type ProjectRepo struct {
	DB DBTX
}

const createProject = `-- name: CreateProject
INSERT INTO projects (id, created_at, updated_at, title, price, creator_id, freelancer_id, status, payment_status, escrow_status, payment_ref, payment_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, created_at, updated_at, title, price, creator_id, freelancer_id, status, payment_status, escrow_status, payment_ref, payment_date
`

func (r *ProjectRepo) Create(ctx context.Context, p models.Project) (models.Project, error) {
	now := time.Now()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
		p.UpdatedAt = now
	}
	if p.Status == "" {
		p.Status = models.ProjectStatusPending
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = models.PaymentStatusPending
	}
	if p.EscrowStatus == "" {
		p.EscrowStatus = models.EscrowStatusPending
	}

	rows, _ := r.DB.Query(ctx, createProject,
		p.ID, p.CreatedAt, p.UpdatedAt, p.Title, p.Price, p.CreatorID, p.FreelancerID,
		p.Status, p.PaymentStatus, p.EscrowStatus, p.PaymentRef, p.PaymentDate,
	)
	project, err := pgx.CollectOneRow(rows, rowToProject)
	if err != nil {
		return project, fmt.Errorf("db error: %w", err)
	}

	return project, nil
}

const getProject = `-- name: GetProject
SELECT id, created_at, updated_at, title, price, creator_id, freelancer_id, status, payment_status, escrow_status, payment_ref, payment_date
FROM projects
WHERE id = $1
`

func (r *ProjectRepo) Get(ctx context.Context, id uuid.UUID) (models.Project, error) {
	rows, _ := r.DB.Query(ctx, getProject, id)
	project, err := pgx.CollectOneRow(rows, rowToProject)

	switch {
	case err == nil:
		return project, nil
	case errors.Is(err, pgx.ErrNoRows):
		return project, apperrors.ErrProjectNotFound
	default:
		return project, fmt.Errorf("db error: %w", err)
	}
}

const listPaidByCreator = `-- name: ListPaidByCreator
SELECT id, created_at, updated_at, title, price, creator_id, freelancer_id, status, payment_status, escrow_status, payment_ref, payment_date
FROM projects
WHERE creator_id = $1 AND payment_status = 'COMPLETED'
ORDER BY payment_date DESC NULLS LAST
`

func (r *ProjectRepo) ListPaidByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Project, error) {
	rows, _ := r.DB.Query(ctx, listPaidByCreator, creatorID)
	projects, err := pgx.CollectRows(rows, rowToProject)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return projects, nil
}

const markEscrowReleased = `-- name: MarkEscrowReleased
UPDATE projects
SET escrow_status = 'RELEASED', status = 'COMPLETED', updated_at = $2
WHERE id = $1
RETURNING id, created_at, updated_at, title, price, creator_id, freelancer_id, status, payment_status, escrow_status, payment_ref, payment_date
`

func (r *ProjectRepo) MarkEscrowReleased(ctx context.Context, id uuid.UUID) (models.Project, error) {
	rows, _ := r.DB.Query(ctx, markEscrowReleased, id, time.Now())
	project, err := pgx.CollectOneRow(rows, rowToProject)

	switch {
	case err == nil:
		return project, nil
	case errors.Is(err, pgx.ErrNoRows):
		return project, apperrors.ErrProjectNotFound
	default:
		return project, fmt.Errorf("db error: %w", err)
	}
}

func rowToProject(row pgx.CollectableRow) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Title, &p.Price, &p.CreatorID, &p.FreelancerID, &p.Status, &p.PaymentStatus, &p.EscrowStatus, &p.PaymentRef, &p.PaymentDate)
	return p, err
}
