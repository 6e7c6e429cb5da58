package user

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/klinik/klinik/internal/platform/auth"
)

var (
	// ErrNotFound means no user exists for the given key.
	ErrNotFound = errors.New("user not found")

	// ErrConflict means a create hit the store's uniqueness constraint:
	// a concurrent request won the first-sight race.
	ErrConflict = errors.New("user already exists")
)

// Repository defines the persistence interface for users. Each method is an
// individually atomic statement; the upsert protocol in Service composes
// them without a surrounding transaction.
type Repository interface {
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateRole(ctx context.Context, id uuid.UUID, role auth.Role) error
	UpdateProfile(ctx context.Context, id uuid.UUID, email string, fullName *string) error
}
