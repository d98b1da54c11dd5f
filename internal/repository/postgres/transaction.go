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

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/models"
)

type TransactionRepo struct {
	DB DBTX
}

const createTransaction = `-- name: CreateTransaction
INSERT INTO wallet_transactions (id, wallet_id, project_id, amount, type, status, payment_ref, bank_account, ifsc_code, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, wallet_id, project_id, amount, type, status, payment_ref, bank_account, ifsc_code, created_at
`

func (r *TransactionRepo) Create(ctx context.Context, tr models.WalletTransaction) (models.WalletTransaction, error) {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	if tr.CreatedAt.IsZero() {
		tr.CreatedAt = time.Now()
	}

	rows, _ := r.DB.Query(ctx, createTransaction,
		tr.ID, tr.WalletID, tr.ProjectID, tr.Amount, tr.Type, tr.Status,
		tr.PaymentRef, tr.BankAccount, tr.IFSCCode, tr.CreatedAt,
	)
	created, err := pgx.CollectOneRow(rows, rowToTransaction)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation {
			return created, apperrors.ErrWalletNotFound
		}

		return created, fmt.Errorf("db error: %w", err)
	}

	return created, nil
}

const listTransactions = `-- name: ListTransactions
SELECT id, wallet_id, project_id, amount, type, status, payment_ref, bank_account, ifsc_code, created_at
FROM wallet_transactions
WHERE wallet_id = $1 AND ($2::text[] IS NULL OR type = ANY($2))
ORDER BY created_at DESC
`

func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, types []string) ([]models.WalletTransaction, error) {
	// An empty slice encodes as '{}' and would match nothing, only NULL
	// disables the filter
	if len(types) == 0 {
		types = nil
	}

	rows, _ := r.DB.Query(ctx, listTransactions, walletID, types)
	transactions, err := pgx.CollectRows(rows, rowToTransaction)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return transactions, nil
}

func rowToTransaction(row pgx.CollectableRow) (models.WalletTransaction, error) {
	var t models.WalletTransaction
	err := row.Scan(&t.ID, &t.WalletID, &t.ProjectID, &t.Amount, &t.Type, &t.Status, &t.PaymentRef, &t.BankAccount, &t.IFSCCode, &t.CreatedAt)
	return t, err
}
