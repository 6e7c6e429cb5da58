package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/klinik/klinik/internal/platform/auth"
)

// ErrStorage wraps repository failures that are not conflicts or misses.
var ErrStorage = errors.New("user storage error")

// Service keeps the local user table in step with the identity provider.
// Every authenticated request passes through Upsert, so all writes here
// must be idempotent.
type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "user-service").Logger()}
}

// Upsert returns the stored user for externalID, creating or updating it so
// the row matches the token's current email, full name and role. Two requests
// racing to create the same subject are resolved by retrying the loser as an
// update.
func (s *Service) Upsert(ctx context.Context, externalID, email string, fullName *string, role auth.Role) (*User, error) {
	u, err := s.repo.GetByExternalID(ctx, externalID)
	if errors.Is(err, ErrNotFound) {
		created, cerr := s.create(ctx, externalID, email, fullName, role)
		if !errors.Is(cerr, ErrConflict) {
			return created, cerr
		}
		// Another request created the row first; fall through to update it.
		u, err = s.repo.GetByExternalID(ctx, externalID)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return s.reconcile(ctx, u, email, fullName, role)
}

func (s *Service) create(ctx context.Context, externalID, email string, fullName *string, role auth.Role) (*User, error) {
	u := &User{
		ExternalID: externalID,
		Email:      email,
		FullName:   fullName,
		Role:       role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	s.logger.Info().Str("external_id", externalID).Str("role", string(role)).Msg("user provisioned")
	return u, nil
}

func (s *Service) reconcile(ctx context.Context, u *User, email string, fullName *string, role auth.Role) (*User, error) {
	if u.Role != role {
		if err := s.repo.UpdateRole(ctx, u.ID, role); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		u.Role = role
	}
	if u.Email != email || !strPtrEqual(u.FullName, fullName) {
		if err := s.repo.UpdateProfile(ctx, u.ID, email, fullName); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorage, err)
		}
		u.Email = email
		u.FullName = fullName
	}
	return u, nil
}

// Provision implements auth.UserProvisioner.
func (s *Service) Provision(ctx context.Context, externalID, email string, fullName *string, role auth.Role) (*auth.Principal, error) {
	u, err := s.Upsert(ctx, externalID, email, fullName, role)
	if err != nil {
		return nil, err
	}
	return u.Principal(), nil
}

func strPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
