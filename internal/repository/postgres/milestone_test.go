package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gigconnect/payments/internal/apperrors"
	"github.com/gigconnect/payments/internal/models"
	"github.com/gigconnect/payments/internal/repository"
	"github.com/gigconnect/payments/internal/testutil"
)

func TestMilestones(t *testing.T) {
	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	inTx := func(t *testing.T, outerTx DBTX, fn func(pgx.Tx, repository.Storage)) {
		testutil.InTx(outerTx, t, func(innerTx pgx.Tx) {
			storage := NewStorage(innerTx)
			fn(innerTx, storage)
		})
	}

	releasedMilestone := func(project models.Project, index int, amount string) models.MilestonePayment {
		now := time.Now()
		return models.MilestonePayment{
			ProjectID:      project.ID,
			MilestoneIndex: index,
			MilestoneTitle: "Design phase",
			Amount:         decimal.RequireFromString(amount),
			ReleasedAt:     &now,
		}
	}

	t.Run("UpsertReleased", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			creator := mustCreateUser(t, storage, "creator", models.RoleCreator)
			freelancer := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)
			project := mustCreateProject(t, storage, creator, freelancer, "1000.00")

			t.Run("first release ok", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					got, err := storage.Milestone().UpsertReleased(t.Context(), releasedMilestone(project, 0, "400.00"))

					require.NoError(t, err, "first release should not fail")
					require.NotZero(t, got.ID)
					require.Equal(t, models.MilestoneReleased, got.Status)
					require.Equal(t, 0, got.MilestoneIndex)
					require.NotNil(t, got.ReleasedAt, "released at should be set")
					require.True(t, got.Amount.Equal(decimal.RequireFromString("400.00")), "amount should match")
				})
			})

			t.Run("repeat release fails and changes nothing", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					first, err := storage.Milestone().UpsertReleased(t.Context(), releasedMilestone(project, 0, "400.00"))
					require.NoError(t, err, "first release should not fail")

					_, err = storage.Milestone().UpsertReleased(t.Context(), releasedMilestone(project, 0, "999.00"))
					require.Error(t, err, "releasing the same milestone twice should fail")
					require.ErrorIs(t, err, apperrors.ErrMilestoneAlreadyReleased, "should return well known error")

					stored, err := storage.Milestone().Get(t.Context(), project.ID, 0)
					require.NoError(t, err)
					require.True(t, stored.Amount.Equal(first.Amount), "stored amount should be unchanged")
				})
			})

			t.Run("different index is independent", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Milestone().UpsertReleased(t.Context(), releasedMilestone(project, 0, "400.00"))
					require.NoError(t, err)

					_, err = storage.Milestone().UpsertReleased(t.Context(), releasedMilestone(project, 1, "300.00"))
					require.NoError(t, err, "other milestone of the same project should release ok")
				})
			})
		})
	})

	t.Run("Get", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			creator := mustCreateUser(t, storage, "creator", models.RoleCreator)
			freelancer := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)
			project := mustCreateProject(t, storage, creator, freelancer, "1000.00")

			t.Run("nonexistent milestone", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					_, err := storage.Milestone().Get(t.Context(), project.ID, 5)

					require.Error(t, err, "getting unknown milestone should fail")
					require.ErrorIs(t, err, apperrors.ErrMilestoneNotFound, "should return well known error")
				})
			})
		})
	})

	t.Run("ListByProject", func(t *testing.T) {
		inTx(t, pg.Pool, func(tx pgx.Tx, storage repository.Storage) {
			creator := mustCreateUser(t, storage, "creator", models.RoleCreator)
			freelancer := mustCreateUser(t, storage, "freelancer", models.RoleFreelancer)
			project := mustCreateProject(t, storage, creator, freelancer, "1000.00")

			_, err := storage.Milestone().UpsertReleased(t.Context(), releasedMilestone(project, 2, "100.00"))
			require.NoError(t, err)
			_, err = storage.Milestone().UpsertReleased(t.Context(), releasedMilestone(project, 0, "400.00"))
			require.NoError(t, err)

			t.Run("ordered by index", func(t *testing.T) {
				inTx(t, tx, func(ttx pgx.Tx, storage repository.Storage) {
					milestones, err := storage.Milestone().ListByProject(t.Context(), project.ID)

					require.NoError(t, err, "listing milestones should not fail")
					require.Len(t, milestones, 2)
					require.Equal(t, 0, milestones[0].MilestoneIndex, "milestones should be ordered by index")
					require.Equal(t, 2, milestones[1].MilestoneIndex)
				})
			})
		})
	})
}
