package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionEscrowHold       = "ESCROW_HOLD"
	TransactionEscrowRelease    = "ESCROW_RELEASE"
	TransactionPaymentReceived  = "PAYMENT_RECEIVED"
	TransactionWithdrawal       = "WITHDRAWAL"
	TransactionMilestonePayment = "MILESTONE_PAYMENT"

	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// WalletTransaction is an immutable audit entry.
// Rows are appended once per ledger mutation and never updated or deleted.
type WalletTransaction struct {
	ID          uuid.UUID
	WalletID    uuid.UUID
	ProjectID   *uuid.UUID
	Amount      decimal.Decimal
	Type        string
	Status      string
	PaymentRef  *string
	BankAccount *string
	IFSCCode    *string
	CreatedAt   time.Time
}
