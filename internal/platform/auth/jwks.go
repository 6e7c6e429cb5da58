package auth

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"
)

// JWKSKey is a single JSON Web Key as published by the provider's
// .well-known/jwks.json endpoint. Only RSA signature keys are eligible for
// verification; everything else is skipped.
type JWKSKey struct {
	Kty string `json:"kty"`
	Kid string `json:"kid"`
	Use string `json:"use"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// JWKSResponse is the envelope returned by the JWKS endpoint.
type JWKSResponse struct {
	Keys []JWKSKey `json:"keys"`
}

const (
	// DefaultKeySetTTL bounds how long a fetched key set is served without
	// refetching.
	DefaultKeySetTTL = time.Hour

	jwksFetchTimeout = 5 * time.Second
)

// KeySetCache holds the provider's current public signing keys. The set is
// empty until the first verification attempt and is replaced wholesale on
// refresh; it is never merged or persisted. Concurrent refreshes are allowed
// to race: the fetch is idempotent and a stale read during a refresh is
// bounded by the TTL, not a correctness problem.
type KeySetCache struct {
	mu        sync.RWMutex
	keys      map[string]*rsa.PublicKey
	fetchedAt time.Time

	jwksURL string
	ttl     time.Duration
	client  *http.Client
}

// NewKeySetCache creates a cache over the given JWKS endpoint. A zero ttl
// means DefaultKeySetTTL.
func NewKeySetCache(jwksURL string, ttl time.Duration) *KeySetCache {
	if ttl <= 0 {
		ttl = DefaultKeySetTTL
	}
	return &KeySetCache{
		keys:    make(map[string]*rsa.PublicKey),
		jwksURL: jwksURL,
		ttl:     ttl,
		client:  &http.Client{Timeout: jwksFetchTimeout},
	}
}

// Key returns the public key for the given kid. An empty or expired cache is
// refreshed first; a kid absent from a fresh cache forces one unconditional
// refresh to tolerate provider key rotation before the lookup fails.
func (c *KeySetCache) Key(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	c.mu.RLock()
	key, ok := c.keys[kid]
	stale := c.fetchedAt.IsZero() || time.Since(c.fetchedAt) > c.ttl
	c.mu.RUnlock()

	if ok && !stale {
		return key, nil
	}

	if err := c.refresh(ctx); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	key, ok = c.keys[kid]
	if !ok {
		return nil, fmt.Errorf("%w: kid %q not in key set", ErrUnknownKey, kid)
	}
	return key, nil
}

// refresh fetches the key set and atomically replaces the cached set. A
// response with no usable keys leaves the previous set in place and fails.
func (c *KeySetCache) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.jwksURL, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrKeyFetch, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %v", ErrKeyFetch, c.jwksURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: endpoint returned status %d", ErrKeyFetch, resp.StatusCode)
	}

	var jwks JWKSResponse
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("%w: decoding response: %v", ErrKeyFetch, err)
	}

	keys := make(map[string]*rsa.PublicKey, len(jwks.Keys))
	for _, k := range jwks.Keys {
		if k.Kty != "RSA" || k.Use != "sig" {
			continue
		}
		pubKey, err := parseRSAPublicKey(k)
		if err != nil {
			continue // skip malformed keys
		}
		keys[k.Kid] = pubKey
	}

	if len(keys) == 0 {
		return fmt.Errorf("%w: response contained no usable keys", ErrKeyFetch)
	}

	c.mu.Lock()
	c.keys = keys
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return nil
}

// parseRSAPublicKey reconstructs an *rsa.PublicKey from the JWK modulus and
// exponent fields.
func parseRSAPublicKey(k JWKSKey) (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decoding modulus: %w", err)
	}
	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decoding exponent: %w", err)
	}

	n := new(big.Int).SetBytes(nBytes)
	e := new(big.Int).SetBytes(eBytes)

	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}
