package service

import "errors"

// Service-level failure kinds. Handlers map these onto status codes; every
// authorization failure collapses to the same 401 body at the edge so the
// API never reveals whether an account, email or credential exists.
var (
	// ErrValidation: missing or malformed input, caller's fault, no state change.
	ErrValidation = errors.New("invalid_request")

	// ErrConflict: duplicate email or username, no state change.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized: bad password, unknown account, or rejected access credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidSession: a refresh credential that fails signature, expiry
	// or purpose checks. No state change.
	ErrInvalidSession = errors.New("invalid_session")

	// ErrSessionRevoked: a well-signed refresh credential that is no longer
	// a member of the account's session set. Presenting one triggers the
	// fail-closed clear of every outstanding session for that account.
	ErrSessionRevoked = errors.New("session_revoked")

	ErrNotFound  = errors.New("not_found")
	ErrForbidden = errors.New("forbidden")
)
