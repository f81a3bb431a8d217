package domain

import "time"

// SessionPair is what a successful login, registration or rotation returns:
// a short-lived access credential verified by signature alone, and a
// longer-lived refresh credential whose validity additionally requires
// membership in the account's session set.
type SessionPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"token_type"` // always "Bearer"
	ExpiresIn    int64  `json:"expires_in"` // access credential lifetime in seconds
}

// Session models one honoured refresh credential. Only the SHA-256
// fingerprint of the credential is persisted, so reading the store never
// yields a usable token.
type Session struct {
	ID        string
	AccountID string
	TokenHash string // base64url SHA-256 fingerprint of the refresh credential
	ExpiresAt time.Time
	CreatedAt time.Time
}
