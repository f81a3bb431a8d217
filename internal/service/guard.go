package service

import (
	"github.com/lanternsoft/lantern/pkg/jwtx"
)

// AccessGuard admits requests bearing a valid access credential. It checks
// signature, expiry, issuer and purpose only; no store lookup happens on this
// path, so a session cleared mid-flight keeps working until its access
// credential expires.
type AccessGuard struct {
	Verifier *jwtx.Verifier
}

func NewAccessGuard(verifier *jwtx.Verifier) *AccessGuard {
	return &AccessGuard{Verifier: verifier}
}

// Authorize returns the account id the credential was issued to. All failure
// modes collapse to ErrUnauthorized.
func (g *AccessGuard) Authorize(token string) (string, error) {
	claims, err := g.Verifier.Verify(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	if err := claims.RequirePurpose(jwtx.PurposeAccess); err != nil {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}
