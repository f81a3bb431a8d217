package jwtx

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMalformed  = errors.New("jwtx: malformed token")
	ErrUnknownKID = errors.New("jwtx: unknown kid")
	ErrExpired    = errors.New("jwtx: token expired")
	ErrIssuer     = errors.New("jwtx: issuer mismatch")
	ErrPurpose    = errors.New("jwtx: wrong credential purpose")
)

// Verifier validates EdDSA-signed session credentials against a set of
// public keys keyed by kid. Verification is purely local: signature, expiry
// and issuer, never a store lookup.
type Verifier struct {
	mu     sync.RWMutex
	keys   map[string]ed25519.PublicKey
	issuer string
}

// NewVerifier returns a Verifier enforcing the given issuer claim.
func NewVerifier(issuer string) *Verifier {
	return &Verifier{
		keys:   make(map[string]ed25519.PublicKey),
		issuer: issuer,
	}
}

// AddSigner registers a signer's public key for verification.
func (v *Verifier) AddSigner(s *Signer) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.keys[s.KID()] = s.PublicKey()
}

// Ready reports whether at least one verification key is loaded.
func (v *Verifier) Ready() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.keys) > 0
}

// Verify parses and validates the token string and returns its claims.
// Expiry and not-before are enforced by the parser; issuer is checked
// afterwards. Purpose is left to the caller via Claims.RequirePurpose.
func (v *Verifier) Verify(tokenStr string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}))

	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		if kid == "" {
			return nil, ErrUnknownKID
		}

		v.mu.RLock()
		pub, ok := v.keys[kid]
		v.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownKID, kid)
		}
		return pub, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpired
		}
		return Claims{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Claims{}, ErrMalformed
	}

	if v.issuer != "" && claims.Issuer != v.issuer {
		return Claims{}, ErrIssuer
	}

	return *claims, nil
}
