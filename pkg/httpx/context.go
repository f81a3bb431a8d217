package httpx

import "context"

type ctxKey string

// CtxKeyAccountID carries the authorized account id set by AuthnMiddleware.
const CtxKeyAccountID ctxKey = "account_id"

// AccountIDFromCtx returns the authorized account id, or "" on
// unauthenticated requests.
func AccountIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyAccountID).(string); ok {
		return v
	}
	return ""
}
