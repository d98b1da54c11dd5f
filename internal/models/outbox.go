package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventEscrowHeld          = "escrow.held"
	EventEscrowReleased      = "escrow.released"
	EventMilestoneReleased   = "milestone.released"
	EventWithdrawalRequested = "withdrawal.requested"
)

// OutboxEvent is a notification written in the same transaction as the
// ledger mutation it describes. A dispatcher publishes it after commit,
// so a broken broker can never roll back a balance change.
type OutboxEvent struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Kind      string
	Payload   []byte
	SentAt    *time.Time
}
