package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	ProjectStatusPending    = "PENDING"
	ProjectStatusInProgress = "IN_PROGRESS"
	ProjectStatusInReview   = "IN_REVIEW"
	ProjectStatusCompleted  = "COMPLETED"
	ProjectStatusCancelled  = "CANCELLED"

	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"

	EscrowStatusPending  = "PENDING"
	EscrowStatusHeld     = "HELD"
	EscrowStatusReleased = "RELEASED"
)

// Project is owned by the project-management side of the platform.
// The ledger reads it for authorization and amounts; the only fields it
// ever writes are Status and EscrowStatus, on a full escrow release.
type Project struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Title         string
	Price         decimal.Decimal
	CreatorID     uuid.UUID
	FreelancerID  uuid.UUID
	Status        string
	PaymentStatus string
	EscrowStatus  string
	PaymentRef    *string
	PaymentDate   *time.Time
}
