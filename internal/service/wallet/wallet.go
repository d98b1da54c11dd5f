package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/models"
	"github.com/gigconnect/payments/internal/repository"
	"github.com/gigconnect/payments/internal/service/fee"
)

// Service is the escrow side of the ledger: it holds project funds in
// trust, releases them with the platform fee split and reserves available
// balance for withdrawals. Every mutation runs in one storage transaction
// with the freelancer's wallet row locked for the read-modify-write.
type Service struct {
	storage repository.Storage
	fee     fee.Fee
}

func NewService(storage repository.Storage, f fee.Fee) *Service {
	return &Service{
		storage: storage,
		fee:     f,
	}
}

type HoldResult struct {
	Message string
}

type ReleaseResult struct {
	Message          string
	TotalAmount      decimal.Decimal
	FreelancerAmount decimal.Decimal
	PlatformFee      decimal.Decimal
}

type Balance struct {
	Available decimal.Decimal
	Escrow    decimal.Decimal
	Total     decimal.Decimal
}

type WithdrawalRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"required"`
	BankAccount string          `json:"bankAccount" validate:"required,min=6"`
	IFSCCode    string          `json:"ifscCode" validate:"required,ifsc"`
}

type WithdrawResult struct {
	Message string
}

// HoldEscrow credits the full project price to the freelancer's escrow
// balance after the payment gateway captured the funds. The capture event
// is trusted as-is: guarding against a duplicate capture for the same
// project is the gateway's job, not the ledger's.
func (s *Service) HoldEscrow(ctx context.Context, projectID uuid.UUID, paymentRef string) (HoldResult, error) {
	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		project, err := st.Project().Get(ctx, projectID)
		if err != nil {
			return err
		}

		w, err := st.Wallet().GetOrCreate(ctx, project.FreelancerID, true)
		if err != nil {
			return err
		}

		w, err = st.Wallet().UpdateBalances(ctx, w.ID, w.AvailableBalance, w.EscrowBalance.Add(project.Price))
		if err != nil {
			return err
		}

		var ref *string
		if paymentRef != "" {
			ref = &paymentRef
		}

		_, err = st.Transaction().Create(ctx, models.WalletTransaction{
			WalletID:   w.ID,
			ProjectID:  &project.ID,
			Amount:     project.Price,
			Type:       models.TransactionEscrowHold,
			Status:     models.TransactionStatusCompleted,
			PaymentRef: ref,
		})
		if err != nil {
			return err
		}

		return addEvent(ctx, st, models.EventEscrowHeld, escrowEvent{
			ProjectID:    project.ID,
			FreelancerID: project.FreelancerID,
			Amount:       project.Price,
		})
	})
	if err != nil {
		return HoldResult{}, err
	}

	return HoldResult{Message: "Payment held in escrow successfully"}, nil
}

// ReleaseEscrow moves the full project price out of escrow, keeps the
// platform fee and credits the rest to the freelancer's available balance.
// Terminal for the project: escrow becomes RELEASED, status COMPLETED,
// and there is no reverse edge.
func (s *Service) ReleaseEscrow(ctx context.Context, actorID, projectID uuid.UUID) (ReleaseResult, error) {
	var result ReleaseResult

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		project, err := st.Project().Get(ctx, projectID)
		if err != nil {
			return err
		}

		if project.CreatorID != actorID {
			return fmt.Errorf("only project creator can release payment: %w", apperrors.ErrAccessDenied)
		}

		w, err := st.Wallet().Get(ctx, project.FreelancerID, true)
		if err != nil {
			return err
		}

		if w.EscrowBalance.LessThan(project.Price) {
			return apperrors.ErrEscrowInsufficient
		}

		platformFee, freelancerAmount := s.fee.Split(project.Price)

		w, err = st.Wallet().UpdateBalances(ctx, w.ID,
			w.AvailableBalance.Add(freelancerAmount),
			w.EscrowBalance.Sub(project.Price),
		)
		if err != nil {
			return err
		}

		if _, err := st.Project().MarkEscrowReleased(ctx, project.ID); err != nil {
			return err
		}

		_, err = st.Transaction().Create(ctx, models.WalletTransaction{
			WalletID:  w.ID,
			ProjectID: &project.ID,
			Amount:    freelancerAmount,
			Type:      models.TransactionEscrowRelease,
			Status:    models.TransactionStatusCompleted,
		})
		if err != nil {
			return err
		}

		result = ReleaseResult{
			Message:          "Payment released successfully",
			TotalAmount:      project.Price,
			FreelancerAmount: freelancerAmount,
			PlatformFee:      platformFee,
		}

		return addEvent(ctx, st, models.EventEscrowReleased, escrowEvent{
			ProjectID:    project.ID,
			FreelancerID: project.FreelancerID,
			Amount:       freelancerAmount,
		})
	})
	if err != nil {
		return ReleaseResult{}, err
	}

	return result, nil
}

// GetBalance returns the wallet balances, creating the wallet on first use
func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (Balance, error) {
	w, err := s.storage.Wallet().GetOrCreate(ctx, userID, false)
	if err != nil {
		return Balance{}, err
	}

	return Balance{
		Available: w.AvailableBalance,
		Escrow:    w.EscrowBalance,
		Total:     w.AvailableBalance.Add(w.EscrowBalance),
	}, nil
}

// RequestWithdrawal reserves available balance for an external payout.
// The WITHDRAWAL transaction stays PENDING: settlement to the bank rail
// happens outside the ledger, its job ends once the funds are reserved.
func (s *Service) RequestWithdrawal(ctx context.Context, userID uuid.UUID, req WithdrawalRequest) (WithdrawResult, error) {
	if !req.Amount.IsPositive() {
		return WithdrawResult{}, fmt.Errorf("invalid withdrawal amount: %w", apperrors.ErrAmountNotPositive)
	}

	err := s.storage.InTx(ctx, func(st repository.Storage) error {
		w, err := st.Wallet().Get(ctx, userID, true)
		if err != nil {
			return err
		}

		if w.AvailableBalance.LessThan(req.Amount) {
			return apperrors.ErrBalanceInsufficient
		}

		w, err = st.Wallet().UpdateBalances(ctx, w.ID, w.AvailableBalance.Sub(req.Amount), w.EscrowBalance)
		if err != nil {
			return err
		}

		_, err = st.Transaction().Create(ctx, models.WalletTransaction{
			WalletID:    w.ID,
			Amount:      req.Amount,
			Type:        models.TransactionWithdrawal,
			Status:      models.TransactionStatusPending,
			BankAccount: &req.BankAccount,
			IFSCCode:    &req.IFSCCode,
		})
		if err != nil {
			return err
		}

		return addEvent(ctx, st, models.EventWithdrawalRequested, withdrawalEvent{
			UserID: userID,
			Amount: req.Amount,
		})
	})
	if err != nil {
		return WithdrawResult{}, err
	}

	return WithdrawResult{Message: "Withdrawal request submitted. Processing within 24-48 hours."}, nil
}

// ListTransactions returns the wallet's audit log, newest first.
// A user without a wallet has an empty history, not an error.
func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error) {
	w, err := s.storage.Wallet().Get(ctx, userID, false)
	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrWalletNotFound):
		return []models.WalletTransaction{}, nil
	default:
		return nil, err
	}

	return s.storage.Transaction().ListByWallet(ctx, w.ID, nil)
}

type escrowEvent struct {
	ProjectID    uuid.UUID       `json:"projectId"`
	FreelancerID uuid.UUID       `json:"freelancerId"`
	Amount       decimal.Decimal `json:"amount"`
}

type withdrawalEvent struct {
	UserID uuid.UUID       `json:"userId"`
	Amount decimal.Decimal `json:"amount"`
}

func addEvent(ctx context.Context, st repository.Storage, kind string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("can't marshal %s event: %w", kind, err)
	}

	_, err = st.Outbox().Add(ctx, models.OutboxEvent{Kind: kind, Payload: data})
	return err
}
