package wallet

import (
	"io"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gigconnect/payments/internal/models"
	"github.com/gigconnect/payments/internal/testutil"
	"github.com/gigconnect/payments/tests/e2e"
)

const (
	BalanceURL = "/api/wallet/balance"
)

func Test_Balance(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	e2e.ServeInTx(pg.Pool, t, func(tx pgx.Tx, srvURL string, s e2e.Services) {
		creator, err := s.Storage.User().Create(t.Context(), models.User{Name: "Alice", Role: models.RoleCreator})
		require.NoError(t, err)
		freelancer, err := s.Storage.User().Create(t.Context(), models.User{Name: "Bob", Role: models.RoleFreelancer})
		require.NoError(t, err)

		t.Run("zero balances for new wallet", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				req, err := http.NewRequest(http.MethodGet, srvURL+BalanceURL, nil)
				require.NoError(t, err, "failed to create request")
				req.Header.Set("X-User-ID", freelancer.ID.String())

				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err, "failed to send request")
				defer resp.Body.Close() // nolint:errcheck

				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err, "failed to read response body")

				require.Equalf(t, http.StatusOK, resp.StatusCode, "balance request should return 200. Body: %s", string(body))
				require.JSONEq(t, `{
					"availableBalance": 0,
					"escrowBalance": 0,
					"totalBalance": 0
				}`, string(body))
			})
		})

		t.Run("balances after hold and release", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				project, err := s.Storage.Project().Create(t.Context(), models.Project{
					Title:        "Landing page",
					Price:        decimal.RequireFromString("1000.00"),
					CreatorID:    creator.ID,
					FreelancerID: freelancer.ID,
				})
				require.NoError(t, err)

				_, err = s.WalletService.HoldEscrow(t.Context(), project.ID, "pay_123")
				require.NoError(t, err)
				_, err = s.WalletService.ReleaseEscrow(t.Context(), creator.ID, project.ID)
				require.NoError(t, err)

				req, err := http.NewRequest(http.MethodGet, srvURL+BalanceURL, nil)
				require.NoError(t, err, "failed to create request")
				req.Header.Set("X-User-ID", freelancer.ID.String())

				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err, "failed to send request")
				defer resp.Body.Close() // nolint:errcheck

				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err, "failed to read response body")

				require.Equalf(t, http.StatusOK, resp.StatusCode, "balance request should return 200. Body: %s", string(body))
				require.JSONEq(t, `{
					"availableBalance": 700,
					"escrowBalance": 0,
					"totalBalance": 700
				}`, string(body))
			})
		})

		t.Run("unauthorized request", func(t *testing.T) {
			testutil.InTx(tx, t, func(_ pgx.Tx) {
				req, err := http.NewRequest(http.MethodGet, srvURL+BalanceURL, nil)
				require.NoError(t, err, "failed to create request")

				resp, err := http.DefaultClient.Do(req)
				require.NoError(t, err, "failed to send request")
				defer resp.Body.Close() // nolint:errcheck

				require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "request without identity should return 401")
			})
		})
	})
}
