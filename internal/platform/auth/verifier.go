package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the verified payload of a single bearer token. It is
// consumed once per request and never stored. The full decoded claim set is
// retained unmodified so callers can read provider-specific claims (the
// custom role claim in particular) without this layer normalizing them.
type TokenClaims struct {
	Subject string
	Email   string
	Name    string

	raw jwt.MapClaims
}

// Claim returns the named claim exactly as it was decoded.
func (c *TokenClaims) Claim(name string) (interface{}, bool) {
	v, ok := c.raw[name]
	return v, ok
}

// VerifierConfig carries the trust parameters for token verification.
type VerifierConfig struct {
	Issuer     string
	Audience   string
	Algorithms []string
}

// Verifier validates bearer tokens against the cached provider key set. It
// is synchronous and side-effect-free beyond the cache interaction; failed
// verifications are never retried here.
type Verifier struct {
	keys *KeySetCache
	cfg  VerifierConfig
}

func NewVerifier(keys *KeySetCache, cfg VerifierConfig) *Verifier {
	if len(cfg.Algorithms) == 0 {
		cfg.Algorithms = []string{"RS256"}
	}
	return &Verifier{keys: keys, cfg: cfg}
}

// Verify checks the token's signature, issuer, audience, and expiry and
// returns its claims. Failures are classed as ErrInvalidHeader,
// ErrUnknownKey, ErrExpiredToken, ErrInvalidClaims, ErrKeyFetch, or
// ErrVerification so the caller can distinguish them with errors.Is.
func (v *Verifier) Verify(ctx context.Context, rawToken string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.cfg.Algorithms),
		jwt.WithExpirationRequired(),
		jwt.WithIssuer(v.cfg.Issuer),
	}
	if v.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(v.cfg.Audience))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(t *jwt.Token) (interface{}, error) {
		kid, ok := t.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("%w: no kid in token header", ErrInvalidHeader)
		}
		return v.keys.Key(ctx, kid)
	}, opts...)

	if err != nil {
		return nil, classifyVerifyError(err)
	}
	if !token.Valid {
		return nil, ErrVerification
	}

	out := &TokenClaims{raw: claims}
	out.Subject, _ = claims.GetSubject()
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		out.Name = name
	}
	return out, nil
}

// classifyVerifyError maps golang-jwt parse errors onto the package's
// failure categories. Errors already carrying a category (from the keyfunc)
// pass through untouched. ErrTokenExpired is checked before the generic
// claims error because the library joins both for an expired token.
func classifyVerifyError(err error) error {
	switch {
	case errors.Is(err, ErrKeyFetch),
		errors.Is(err, ErrUnknownKey),
		errors.Is(err, ErrInvalidHeader):
		return err
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpiredToken, err)
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrInvalidClaims, err)
	default:
		return fmt.Errorf("%w: %v", ErrVerification, err)
	}
}
