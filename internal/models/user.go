package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleCreator    = "CREATOR"
	RoleFreelancer = "FREELANCER"
)

// User is a read model of the identity service. The ledger never creates
// or verifies users; it only needs names and roles for history and invoices.
type User struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Name      string
	Role      string
}
