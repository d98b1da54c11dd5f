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

func TestProjects(t *testing.T) {
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
			creator := mustCreateUser(t, storage, "creator", models.RoleCreator)
			freelancer := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)

			t.Run("defaults applied", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					project, err := storage.Project().Create(t.Context(), models.Project{
						Title:        "Landing page",
						Price:        decimal.RequireFromString("1000.00"),
						CreatorID:    creator.ID,
						FreelancerID: freelancer.ID,
					})

					require.NoError(t, err, "project has to be created ok")
					require.NotZero(t, project.ID)
					require.Equal(t, models.ProjectStatusPending, project.Status)
					require.Equal(t, models.PaymentStatusPending, project.PaymentStatus)
					require.Equal(t, models.EscrowStatusPending, project.EscrowStatus)
				})
			})
		})
	})

	t.Run("Get", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			creator := mustCreateUser(t, storage, "creator", models.RoleCreator)
			freelancer := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)
			project := mustCreateProject(t, storage, creator, freelancer, "1000.00")

			t.Run("existing project", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.Project().Get(t.Context(), project.ID)

					require.NoError(t, err, "getting project should not fail")
					require.Equal(t, project.ID, got.ID)
					require.Equal(t, creator.ID, got.CreatorID)
					require.Equal(t, freelancer.ID, got.FreelancerID)
					require.True(t, got.Price.Equal(project.Price), "price should match")
				})
			})

			t.Run("nonexistent project", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Project().Get(t.Context(), uuid.New())

					require.Error(t, err, "getting unknown project should fail")
					require.ErrorIs(t, err, apperrors.ErrProjectNotFound, "should return well known error")
				})
			})
		})
	})

	t.Run("ListPaidByCreator", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			creator := mustCreateUser(t, storage, "creator", models.RoleCreator)
			freelancer := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)

			olderPaid := time.Now().Add(-2 * time.Hour)
			newerPaid := time.Now().Add(-1 * time.Hour)

			older, err := storage.Project().Create(t.Context(), models.Project{
				Title:         "Older paid",
				Price:         decimal.RequireFromString("500.00"),
				CreatorID:     creator.ID,
				FreelancerID:  freelancer.ID,
				PaymentStatus: models.PaymentStatusCompleted,
				PaymentDate:   &olderPaid,
			})
			require.NoError(t, err)

			newer, err := storage.Project().Create(t.Context(), models.Project{
				Title:         "Newer paid",
				Price:         decimal.RequireFromString("1000.00"),
				CreatorID:     creator.ID,
				FreelancerID:  freelancer.ID,
				PaymentStatus: models.PaymentStatusCompleted,
				PaymentDate:   &newerPaid,
			})
			require.NoError(t, err)

			// Unpaid project must not show up in the history
			_ = mustCreateProject(t, storage, creator, freelancer, "300.00")

			t.Run("only paid projects most recent first", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					projects, err := storage.Project().ListPaidByCreator(t.Context(), creator.ID)

					require.NoError(t, err, "listing paid projects should not fail")
					require.Len(t, projects, 2, "should return only projects with completed payment")
					require.Equal(t, newer.ID, projects[0].ID, "first project should be the most recently paid")
					require.Equal(t, older.ID, projects[1].ID)
				})
			})

			t.Run("other creator gets empty list", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					projects, err := storage.Project().ListPaidByCreator(t.Context(), uuid.New())

					require.NoError(t, err)
					require.Empty(t, projects)
				})
			})
		})
	})

	t.Run("MarkEscrowReleased", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			creator := mustCreateUser(t, storage, "creator", models.RoleCreator)
			freelancer := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)
			project := mustCreateProject(t, storage, creator, freelancer, "1000.00")

			t.Run("marks released and completed", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.Project().MarkEscrowReleased(t.Context(), project.ID)

					require.NoError(t, err, "marking escrow released should not fail")
					require.Equal(t, models.EscrowStatusReleased, got.EscrowStatus)
					require.Equal(t, models.ProjectStatusCompleted, got.Status)
				})
			})

			t.Run("nonexistent project", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Project().MarkEscrowReleased(t.Context(), uuid.New())

					require.Error(t, err, "marking unknown project should fail")
					require.ErrorIs(t, err, apperrors.ErrProjectNotFound, "should return well known error")
				})
			})
		})
	})
}
