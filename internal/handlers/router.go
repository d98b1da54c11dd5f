package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigconnect/payments/internal/handlers/middleware"
	"github.com/gigconnect/payments/internal/logger"
	"github.com/gigconnect/payments/internal/models"
	"github.com/gigconnect/payments/internal/service/payment"
	"github.com/gigconnect/payments/internal/service/wallet"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	walletService walletService,
	paymentService paymentService,
	logger logger.Logger,
) http.Handler {
	identityMiddleware := middleware.IdentityMiddleware()
	withIdentity := func(h http.Handler) http.Handler {
		return identityMiddleware(h)
	}

	api := http.NewServeMux()

	// Escrow hold is invoked by the payment gateway callback, the capture
	// itself carries authorization. Everything else needs an actor.
	api.Handle("POST /wallet/escrow/hold", handleHoldEscrow(walletService, logger))
	api.Handle("POST /wallet/escrow/release/{projectID}", withIdentity(handleReleaseEscrow(walletService, logger)))
	api.Handle("GET /wallet/balance", withIdentity(handleWalletBalance(walletService, logger)))
	api.Handle("POST /wallet/withdraw", withIdentity(handleWithdraw(walletService, logger)))
	api.Handle("GET /wallet/transactions", withIdentity(handleListTransactions(walletService, logger)))

	api.Handle("GET /payments/history", withIdentity(handlePaymentHistory(paymentService, logger)))
	api.Handle("GET /payments/invoice/{projectID}", withIdentity(handleGenerateInvoice(paymentService, logger)))
	api.Handle("POST /payments/milestone/{projectID}/release", withIdentity(handleReleaseMilestone(paymentService, logger)))
	api.Handle("GET /payments/milestone/{projectID}", withIdentity(handleListMilestones(paymentService, logger)))

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	handler := chain(root,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type walletService interface {
	// Credit the project price to the freelancer's escrow balance
	HoldEscrow(ctx context.Context, projectID uuid.UUID, paymentRef string) (wallet.HoldResult, error)

	// Release the full escrowed price with the platform fee split
	// Has to return apperrors.ErrAccessDenied if the actor is not the creator
	ReleaseEscrow(ctx context.Context, actorID, projectID uuid.UUID) (wallet.ReleaseResult, error)

	GetBalance(ctx context.Context, userID uuid.UUID) (wallet.Balance, error)
	RequestWithdrawal(ctx context.Context, userID uuid.UUID, req wallet.WithdrawalRequest) (wallet.WithdrawResult, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.WalletTransaction, error)
}

type paymentService interface {
	// Release one milestone's amount from escrow, at most once per
	// (project, index) pair
	ReleaseMilestone(ctx context.Context, actorID, projectID uuid.UUID, index int, amount decimal.Decimal, title string) (payment.MilestoneResult, error)

	History(ctx context.Context, userID uuid.UUID) ([]payment.HistoryEntry, error)
	GenerateInvoice(ctx context.Context, actorID, projectID uuid.UUID) (payment.Invoice, error)
	ListMilestones(ctx context.Context, actorID, projectID uuid.UUID) ([]models.MilestonePayment, error)
}
