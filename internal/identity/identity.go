// Package identity exchanges assertions from external identity providers for
// a verified subject profile. The account directory treats a successful
// exchange as proof of email ownership.
package identity

import (
	"context"
	"errors"
)

// ErrRejected means the provider did not accept the assertion. The caller
// must not distinguish this from any other authentication failure.
var ErrRejected = errors.New("identity assertion rejected")

// Subject is the verified profile an exchange yields.
type Subject struct {
	Email     string
	FirstName string
	LastName  string
	AvatarURL string
}

// Exchanger validates a provider-issued assertion and returns the subject it
// vouches for.
type Exchanger interface {
	Exchange(ctx context.Context, assertion string) (Subject, error)
}
