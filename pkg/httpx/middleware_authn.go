package httpx

import (
	"context"
	"net/http"

	"github.com/lanternsoft/lantern/pkg/slogx"
)

// Authorizer checks a presented access credential and returns the account it
// was minted for. Implementations verify signature and expiry only, with no
// store lookup, so protected-route latency never depends on storage.
type Authorizer interface {
	Authorize(token string) (string, error)
}

// AuthnMiddleware guards a route behind bearer access-credential
// verification and injects the account id into the request context.
func AuthnMiddleware(guard Authorizer) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw := BearerToken(r)
			if raw == "" {
				writeBearerError(w, "missing bearer token")
				return
			}

			accountID, err := guard.Authorize(raw)
			if err != nil {
				log.Warn("access credential rejected", "err", err)
				writeBearerError(w, "token verification failed")
				return
			}

			ctx = context.WithValue(ctx, CtxKeyAccountID, accountID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RFC 6750-compliant error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
