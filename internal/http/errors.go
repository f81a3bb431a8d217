package http

import (
	"errors"
	"net/http"

	"github.com/lanternsoft/lantern/internal/service"
	"github.com/lanternsoft/lantern/pkg/httpx"
	"github.com/lanternsoft/lantern/pkg/slogx"
)

// writeServiceError maps service sentinels onto status codes. Every
// authentication failure, including detected refresh-token reuse, produces
// the same 401 body; the distinction lives in the logs only.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "missing or malformed field")
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, "conflict", "email or username already in use")
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidSession),
		errors.Is(err, service.ErrSessionRevoked):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, service.ErrForbidden):
		httpx.WriteError(w, http.StatusForbidden, "forbidden", "not allowed")
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, "not_found", "resource does not exist")
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}
