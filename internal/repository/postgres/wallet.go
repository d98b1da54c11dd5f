package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/models"
)

type WalletRepo struct {
	DB DBTX
}

// Insert is a no-op when the wallet already exists: the unique constraint
// on user_id guarantees one wallet per user under concurrent first use
const createWallet = `-- name: CreateWallet
INSERT INTO wallets (id, user_id, available_balance, escrow_balance, created_at, updated_at)
VALUES ($1, $2, 0, 0, $3, $3)
ON CONFLICT (user_id) DO NOTHING
`

const getWallet = `-- name: GetWallet
SELECT id, user_id, available_balance, escrow_balance, created_at, updated_at
FROM wallets
WHERE user_id = $1
`

func (r *WalletRepo) GetOrCreate(ctx context.Context, userID uuid.UUID, forUpdate bool) (models.Wallet, error) {
	_, err := r.DB.Exec(ctx, createWallet, uuid.New(), userID, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return models.Wallet{}, apperrors.ErrUserNotFound
		}

		return models.Wallet{}, fmt.Errorf("db error: %w", err)
	}

	return r.Get(ctx, userID, forUpdate)
}

func (r *WalletRepo) Get(ctx context.Context, userID uuid.UUID, forUpdate bool) (models.Wallet, error) {
	query := getWallet
	if forUpdate {
		query += " FOR UPDATE"
	}

	rows, _ := r.DB.Query(ctx, query, userID)
	wallet, err := pgx.CollectOneRow(rows, rowToWallet)

	switch {
	case err == nil:
		return wallet, nil
	case errors.Is(err, pgx.ErrNoRows):
		return wallet, apperrors.ErrWalletNotFound
	default:
		return wallet, fmt.Errorf("db error: %w", err)
	}
}

const updateBalances = `-- name: UpdateBalances
UPDATE wallets
SET available_balance = $2, escrow_balance = $3, updated_at = $4
WHERE id = $1
RETURNING id, user_id, available_balance, escrow_balance, created_at, updated_at
`

func (r *WalletRepo) UpdateBalances(ctx context.Context, walletID uuid.UUID, available, escrow decimal.Decimal) (models.Wallet, error) {
	rows, _ := r.DB.Query(ctx, updateBalances, walletID, available, escrow, time.Now())
	wallet, err := pgx.CollectOneRow(rows, rowToWallet)

	switch {
	case err == nil:
		return wallet, nil
	case errors.Is(err, pgx.ErrNoRows):
		return wallet, apperrors.ErrWalletNotFound
	default:
		return wallet, fmt.Errorf("db error: %w", err)
	}
}

func rowToWallet(row pgx.CollectableRow) (models.Wallet, error) {
	var w models.Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.AvailableBalance, &w.EscrowBalance, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}
