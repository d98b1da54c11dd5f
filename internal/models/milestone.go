package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MilestonePending  = "PENDING"
	MilestoneReleased = "RELEASED"
)

// MilestonePayment records a partial release against one milestone of a
// project. The pair (ProjectID, MilestoneIndex) is unique and a row may
// reach RELEASED at most once.
type MilestonePayment struct {
	ID             uuid.UUID
	ProjectID      uuid.UUID
	MilestoneIndex int
	MilestoneTitle string
	Amount         decimal.Decimal
	Status         string
	ReleasedAt     *time.Time
	CreatedAt      time.Time
}
