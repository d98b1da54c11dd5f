package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/models"
	"github.com/gigconnect/payments/internal/repository"
	"github.com/gigconnect/payments/internal/testutil"
)

func TestTransactions(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.InTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	t.Run("Create", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)
			wallet, err := storage.Wallet().GetOrCreate(t.Context(), user.ID, false)
			require.NoError(t, err)

			t.Run("escrow hold entry", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					projectID := uuid.New()
					ref := "pay_123"

					got, err := storage.Transaction().Create(t.Context(), models.WalletTransaction{
						WalletID:   wallet.ID,
						ProjectID:  &projectID,
						Amount:     decimal.RequireFromString("1000.00"),
						Type:       models.TransactionEscrowHold,
						Status:     models.TransactionStatusCompleted,
						PaymentRef: &ref,
					})

					require.NoError(t, err, "creating transaction should not fail")
					require.NotZero(t, got.ID, "id should be assigned")
					require.NotZero(t, got.CreatedAt, "created at should be assigned")
					require.Equal(t, wallet.ID, got.WalletID)
					require.Equal(t, models.TransactionEscrowHold, got.Type)
					require.Equal(t, models.TransactionStatusCompleted, got.Status)
					require.NotNil(t, got.PaymentRef)
					require.Equal(t, ref, *got.PaymentRef)
				})
			})

			t.Run("withdrawal entry keeps bank details", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					account := "1234567890"
					ifsc := "HDFC0001234"

					got, err := storage.Transaction().Create(t.Context(), models.WalletTransaction{
						WalletID:    wallet.ID,
						Amount:      decimal.RequireFromString("280.00"),
						Type:        models.TransactionWithdrawal,
						Status:      models.TransactionStatusPending,
						BankAccount: &account,
						IFSCCode:    &ifsc,
					})

					require.NoError(t, err, "creating withdrawal transaction should not fail")
					require.Equal(t, models.TransactionStatusPending, got.Status, "withdrawal entry stays pending")
					require.NotNil(t, got.BankAccount)
					require.Equal(t, account, *got.BankAccount)
					require.NotNil(t, got.IFSCCode)
					require.Equal(t, ifsc, *got.IFSCCode)
				})
			})

			t.Run("nonexistent wallet", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Transaction().Create(t.Context(), models.WalletTransaction{
						WalletID: uuid.New(),
						Amount:   decimal.RequireFromString("10.00"),
						Type:     models.TransactionEscrowHold,
						Status:   models.TransactionStatusCompleted,
					})

					require.Error(t, err, "creating transaction for unknown wallet should fail")
					require.ErrorIs(t, err, apperrors.ErrWalletNotFound, "should return well known error")
				})
			})
		})
	})

	t.Run("ListByWallet", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			user := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)
			wallet, err := storage.Wallet().GetOrCreate(t.Context(), user.ID, false)
			require.NoError(t, err)

			older := models.WalletTransaction{
				ID:        uuid.New(),
				WalletID:  wallet.ID,
				Amount:    decimal.RequireFromString("700.00"),
				Type:      models.TransactionEscrowRelease,
				Status:    models.TransactionStatusCompleted,
				CreatedAt: time.Now().Add(-2 * time.Hour),
			}
			newer := models.WalletTransaction{
				ID:        uuid.New(),
				WalletID:  wallet.ID,
				Amount:    decimal.RequireFromString("280.00"),
				Type:      models.TransactionWithdrawal,
				Status:    models.TransactionStatusPending,
				CreatedAt: time.Now().Add(-1 * time.Hour),
			}

			_, err = storage.Transaction().Create(t.Context(), older)
			require.NoError(t, err)
			_, err = storage.Transaction().Create(t.Context(), newer)
			require.NoError(t, err)

			t.Run("all types newest first", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					transactions, err := storage.Transaction().ListByWallet(t.Context(), wallet.ID, nil)

					require.NoError(t, err, "listing transactions should not fail")
					require.Len(t, transactions, 2, "should return all transactions")
					require.Equal(t, newer.ID, transactions[0].ID, "first transaction should be the most recent")
					require.Equal(t, older.ID, transactions[1].ID, "second transaction should be the older one")
				})
			})

			t.Run("empty filter means all types", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					transactions, err := storage.Transaction().ListByWallet(t.Context(), wallet.ID, []string{})

					require.NoError(t, err, "listing with empty filter should not fail")
					require.Len(t, transactions, 2, "empty filter should behave like nil")
				})
			})

			t.Run("filter by type", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					transactions, err := storage.Transaction().ListByWallet(t.Context(), wallet.ID, []string{models.TransactionWithdrawal})

					require.NoError(t, err, "listing filtered transactions should not fail")
					require.Len(t, transactions, 1, "should return only withdrawals")
					require.Equal(t, newer.ID, transactions[0].ID)
				})
			})

			t.Run("unknown wallet returns empty list", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					transactions, err := storage.Transaction().ListByWallet(t.Context(), uuid.New(), nil)

					require.NoError(t, err, "listing transactions for unknown wallet should not fail")
					require.Empty(t, transactions, "should return empty list")
				})
			})
		})
	})
}
