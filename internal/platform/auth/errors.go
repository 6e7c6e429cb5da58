package auth

import "errors"

// Failure categories for the authentication pipeline. Handlers match these
// with errors.Is; only the category ever crosses the HTTP boundary.
var (
	// ErrKeyFetch means the provider's key-set endpoint was unreachable or
	// returned no usable keys.
	ErrKeyFetch = errors.New("signing key fetch failed")

	// ErrInvalidHeader means the token's header could not be parsed or names
	// no key id.
	ErrInvalidHeader = errors.New("invalid token header")

	// ErrUnknownKey means no key in the current set matches the token's key
	// id, even after a forced refresh.
	ErrUnknownKey = errors.New("unknown signing key")

	// ErrExpiredToken means the token's expiry is in the past.
	ErrExpiredToken = errors.New("token expired")

	// ErrInvalidClaims means the issuer, audience, or another registered
	// claim failed validation.
	ErrInvalidClaims = errors.New("invalid token claims")

	// ErrVerification is the catch-all for any other decode or signature
	// failure.
	ErrVerification = errors.New("token verification failed")

	// ErrMissingCredentials means no bearer token was presented.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrIncompleteClaims means a verified token lacks a subject or email.
	ErrIncompleteClaims = errors.New("token missing subject or email")

	// ErrForbidden means the authenticated principal's role is not in the
	// operation's allow-list.
	ErrForbidden = errors.New("insufficient role")
)
