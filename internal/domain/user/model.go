package user

import (
	"github.com/google/uuid"

	"github.com/klinik/klinik/internal/platform/auth"
)

// User maps to the users table. Exactly one User exists per distinct
// external id; email uniqueness is enforced by storage. The record always
// converges to the latest verified claims and is never deleted here.
type User struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ExternalID string    `db:"external_id" json:"external_id"`
	Email      string    `db:"email" json:"email"`
	FullName   *string   `db:"full_name" json:"full_name,omitempty"`
	Role       auth.Role `db:"role" json:"role"`
}

// Principal returns the request-scoped view of this user.
func (u *User) Principal() *auth.Principal {
	return &auth.Principal{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		FullName:   u.FullName,
		Role:       u.Role,
	}
}
