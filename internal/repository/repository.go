package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigconnect/payments/internal/models"
)

// Storage aggregates every repository and the transaction wrapper.
// Ledger mutations must run inside InTx: either all writes of one call
// commit or none of them do.
type Storage interface {
	User() UserRepo
	Project() ProjectRepo
	Wallet() WalletRepo
	Transaction() TransactionRepo
	Milestone() MilestoneRepo
	Outbox() OutboxRepo

	InTx(ctx context.Context, fn func(Storage) error) error
}

type UserRepo interface {
	// Create is used by collaborator sync and test fixtures, the ledger
	// itself only reads users
	Create(ctx context.Context, user models.User) (models.User, error)

	// If user not found must return apperrors.ErrUserNotFound
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
}

type ProjectRepo interface {
	Create(ctx context.Context, project models.Project) (models.Project, error)

	// If project not found must return apperrors.ErrProjectNotFound
	Get(ctx context.Context, id uuid.UUID) (models.Project, error)

	// Projects with completed payment, most recently paid first
	ListPaidByCreator(ctx context.Context, creatorID uuid.UUID) ([]models.Project, error)

	// Terminal transition of the escrow lifecycle: escrow_status=RELEASED,
	// status=COMPLETED. The only project write the ledger performs.
	MarkEscrowReleased(ctx context.Context, id uuid.UUID) (models.Project, error)
}

type WalletRepo interface {
	// Return the wallet for the user, creating it with zero balances on
	// first use. Backed by the unique constraint on user_id, so two
	// concurrent first calls still produce exactly one wallet.
	// When forUpdate is set the returned row is locked until commit.
	GetOrCreate(ctx context.Context, userID uuid.UUID, forUpdate bool) (models.Wallet, error)

	// Like GetOrCreate but fails with apperrors.ErrWalletNotFound when the
	// user has no wallet yet
	Get(ctx context.Context, userID uuid.UUID, forUpdate bool) (models.Wallet, error)

	// Overwrite both balances. Callers compute the new values under the
	// row lock taken by Get/GetOrCreate with forUpdate
	UpdateBalances(ctx context.Context, walletID uuid.UUID, available, escrow decimal.Decimal) (models.Wallet, error)
}

type TransactionRepo interface {
	// Append an audit entry. There are intentionally no update or delete
	// methods: the log is the source of truth for payment history
	Create(ctx context.Context, tr models.WalletTransaction) (models.WalletTransaction, error)

	// Newest first. Empty types slice means all types
	ListByWallet(ctx context.Context, walletID uuid.UUID, types []string) ([]models.WalletTransaction, error)
}

type MilestoneRepo interface {
	// If no row exists for the pair must return apperrors.ErrMilestoneNotFound
	Get(ctx context.Context, projectID uuid.UUID, index int) (models.MilestonePayment, error)

	// Insert or update the (project, index) row to RELEASED. If the row is
	// already RELEASED must return apperrors.ErrMilestoneAlreadyReleased
	// and change nothing
	UpsertReleased(ctx context.Context, m models.MilestonePayment) (models.MilestonePayment, error)

	ListByProject(ctx context.Context, projectID uuid.UUID) ([]models.MilestonePayment, error)
}

type OutboxRepo interface {
	Add(ctx context.Context, event models.OutboxEvent) (models.OutboxEvent, error)
	ListUnsent(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
}
