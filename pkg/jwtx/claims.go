package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Default token TTLs. Access credentials are deliberately short-lived: they
// are verified by signature alone, so expiry is the only revocation bound.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 30 * 24 * time.Hour
)

// Credential purposes. An access credential must never validate as a refresh
// credential and vice versa, so every token carries its purpose in the
// signed payload.
const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

// Claims are the signed session-credential claims. The subject is the
// account id; Purpose distinguishes access from refresh credentials.
type Claims struct {
	jwt.RegisteredClaims

	Purpose string `json:"purpose"`
}

// NewSessionClaims builds claims for a session credential bound to the given
// account.
func NewSessionClaims(accountID, purpose, issuer string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   accountID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        newJTI(),
		},
		Purpose: purpose,
	}
}

// RequirePurpose ensures the credential was minted for the expected use.
func (c *Claims) RequirePurpose(want string) error {
	if c.Purpose != want {
		return ErrPurpose
	}
	return nil
}

// newJTI returns a URL-safe random identifier for the "jti" claim. It also
// guarantees two credentials minted in the same instant differ, which the
// rotation protocol relies on.
func newJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}
