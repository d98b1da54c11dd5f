package e2e

import (
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gigconnect/payments/internal/handlers"
	"github.com/gigconnect/payments/internal/logger"
	"github.com/gigconnect/payments/internal/repository"
	"github.com/gigconnect/payments/internal/repository/postgres"
	"github.com/gigconnect/payments/internal/service/fee"
	"github.com/gigconnect/payments/internal/service/payment"
	"github.com/gigconnect/payments/internal/service/wallet"
	"github.com/gigconnect/payments/internal/testutil"
)

type Services struct {
	WalletService  *wallet.Service
	PaymentService *payment.Service
	Storage        repository.Storage
}

// Create db transaction and run server with that connection (one connection cause one transaction)
// The created transaction passed to inner function: so, you can safely use testutil.InTx with it
func ServeInTx(dbpool *pgxpool.Pool, t *testing.T, fn func(tx pgx.Tx, srvURL string, services Services)) {
	testutil.InTx(dbpool, t, func(tx pgx.Tx) {
		// Initialize repositories
		storage := postgres.NewStorage(tx)

		// Initialize services
		platformFee := fee.MustDefault()
		walletService := wallet.NewService(storage, platformFee)
		paymentService := payment.NewService(storage, platformFee)

		// Complete all together as router
		router := handlers.NewRouter(walletService, paymentService, logger.NewNoOpLogger())

		// Run http server with the router in transaction
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(tx, srv.URL, Services{
			WalletService:  walletService,
			PaymentService: paymentService,
			Storage:        storage,
		})
	})
}
