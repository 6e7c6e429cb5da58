package auth

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the authenticated, role-resolved representation of the caller
// for one request. It is derived from a token with a valid signature and
// claims at this instant, lives in the request context, and is discarded
// when the request completes.
type Principal struct {
	ID         uuid.UUID `json:"id"`
	ExternalID string    `json:"external_id"`
	Email      string    `json:"email"`
	FullName   *string   `json:"full_name,omitempty"`
	Role       Role      `json:"role"`
}

type contextKey string

const principalKey contextKey = "principal"

// WithPrincipal returns a context carrying the principal.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFromContext returns the request's principal, or nil when the
// request has not passed authentication.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey).(*Principal)
	return p
}
