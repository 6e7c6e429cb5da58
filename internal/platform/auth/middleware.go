package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// UserProvisioner reconciles a verified identity against the persistent user
// store: create on first sight, converge to the latest verified claims on
// drift. Implemented by the user domain service.
type UserProvisioner interface {
	Provision(ctx context.Context, externalID, email string, fullName *string, role Role) (*Principal, error)
}

// Authenticator runs the per-request authentication pipeline: token
// verification, role resolution, then user provisioning. Each request moves
// through the steps strictly in order; the first failure rejects the request
// with no downstream call.
type Authenticator struct {
	verifier *Verifier
	roles    *RoleResolver
	users    UserProvisioner
}

func NewAuthenticator(verifier *Verifier, roles *RoleResolver, users UserProvisioner) *Authenticator {
	return &Authenticator{verifier: verifier, roles: roles, users: users}
}

// Authenticate turns a raw bearer token into a Principal. It fails with
// ErrMissingCredentials when no token was presented, ErrIncompleteClaims
// when the verified claims lack a subject or email, and otherwise propagates
// the first component failure.
func (a *Authenticator) Authenticate(ctx context.Context, rawToken string) (*Principal, error) {
	if rawToken == "" {
		return nil, ErrMissingCredentials
	}

	claims, err := a.verifier.Verify(ctx, rawToken)
	if err != nil {
		return nil, err
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, ErrIncompleteClaims
	}

	var fullName *string
	if claims.Name != "" {
		name := claims.Name
		fullName = &name
	}

	role := a.roles.Resolve(claims)
	return a.users.Provision(ctx, claims.Subject, claims.Email, fullName, role)
}

// Middleware authenticates every request and stores the resulting Principal
// in the request context. Token and claim failures surface as 401 with a
// stable label; a key-set outage surfaces as 503; provisioning failures as
// 500. No internal detail crosses the boundary.
func (a *Authenticator) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawToken, err := bearerToken(c.Request().Header.Get("Authorization"))
			if err != nil {
				return httpError(err)
			}

			principal, err := a.Authenticate(c.Request().Context(), rawToken)
			if err != nil {
				return httpError(err)
			}

			ctx := WithPrincipal(c.Request().Context(), principal)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// bearerToken extracts the token from an Authorization header.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingCredentials
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", ErrMissingCredentials
	}
	return parts[1], nil
}

// RequireRole returns middleware enforcing a role allow-list. An empty list
// means "authenticated only, any role"; a non-empty list rejects principals
// whose role is not a member. Requests without a principal (routes wired
// outside the auth middleware) are rejected as unauthenticated.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFromContext(c.Request().Context())
			if principal == nil {
				return httpError(ErrMissingCredentials)
			}
			if len(roles) == 0 {
				return next(c)
			}
			for _, allowed := range roles {
				if principal.Role == allowed {
					return next(c)
				}
			}
			return httpError(ErrForbidden)
		}
	}
}

// DevAuthMiddleware is a permissive middleware for development that gives
// every request a doctor principal without verification. Doctor rather than
// admin because the write gates admit only doctors.
func DevAuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := &Principal{
				ExternalID: "dev-user",
				Email:      "dev@localhost",
				Role:       RoleDoctor,
			}
			ctx := WithPrincipal(c.Request().Context(), principal)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// httpError translates a pipeline failure into the response the caller sees.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrKeyFetch):
		return echo.NewHTTPError(http.StatusServiceUnavailable, "identity provider unavailable")
	case errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrIncompleteClaims),
		errors.Is(err, ErrInvalidHeader),
		errors.Is(err, ErrUnknownKey),
		errors.Is(err, ErrExpiredToken),
		errors.Is(err, ErrInvalidClaims),
		errors.Is(err, ErrVerification):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
