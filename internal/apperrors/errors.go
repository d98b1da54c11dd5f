package apperrors

import (
	"errors"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrWalletNotFound  = errors.New("wallet not found")

	ErrAccessDenied = errors.New("access denied")

	ErrAmountNotPositive   = errors.New("amount must be positive")
	ErrEscrowInsufficient  = errors.New("insufficient escrow balance")
	ErrBalanceInsufficient = errors.New("insufficient balance")

	ErrMilestoneDataMissing     = errors.New("missing required milestone data")
	ErrMilestoneNotFound        = errors.New("milestone payment not found")
	ErrMilestoneAlreadyReleased = errors.New("milestone payment already released")
)
