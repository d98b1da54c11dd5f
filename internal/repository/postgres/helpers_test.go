package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/gigconnect/payments/internal/models"
	"github.com/gigconnect/payments/internal/repository"
)

// Fixtures shared by repository tests. Users and projects are owned by
// other services in production, tests have to seed them by hand.

func mustCreateUser(t *testing.T, storage repository.Storage, name string, role string) models.User {
	t.Helper()

	user, err := storage.User().Create(t.Context(), models.User{Name: name, Role: role})
	require.NoError(t, err, "user fixture has to be created ok")

	return user
}

func mustCreateProject(t *testing.T, storage repository.Storage, creator models.User, freelancer models.User, price string) models.Project {
	t.Helper()

	project, err := storage.Project().Create(t.Context(), models.Project{
		Title:        "Test project",
		Price:        decimal.RequireFromString(price),
		CreatorID:    creator.ID,
		FreelancerID: freelancer.ID,
	})
	require.NoError(t, err, "project fixture has to be created ok")

	return project
}
