package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a freelancer's funds. One wallet per user.
// Balances are never mutated directly: every change goes through the
// ledger operations so that the transaction log stays complete.
type Wallet struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	AvailableBalance decimal.Decimal
	EscrowBalance    decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
