package store

import (
	"context"
	"errors"

	"github.com/lanternsoft/lantern/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories are exposed as methods to keep concerns
// tidy and stop anyone accidentally nesting transactions.
type Store interface {
	Accounts() Accounts
	Sessions() Sessions
	Posts() Posts
	Comments() Comments

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn inside a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the required path for the
	// multi-step session mutations (rotation, revocation): either the whole
	// read-modify-write lands or none of it does.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Accounts interface {
	// GetByID returns an account by id.
	GetByID(ctx context.Context, id string) (domain.Account, error)

	// GetByUsername is used during password login.
	GetByUsername(ctx context.Context, username string) (domain.Account, error)

	// GetByEmail is used during identity sign-in.
	GetByEmail(ctx context.Context, email string) (domain.Account, error)

	// FindByEmailOrUsername returns any account matching either field.
	// Registration and profile updates use it as the uniqueness probe.
	FindByEmailOrUsername(ctx context.Context, email, username string) (domain.Account, error)

	// Create inserts a new account (id is provided by the app via ULID).
	Create(ctx context.Context, a domain.Account) error

	// Update replaces the mutable fields and bumps updated_at.
	Update(ctx context.Context, a domain.Account) error

	// Delete removes the account; sessions, posts and comments cascade.
	Delete(ctx context.Context, id string) error

	// List returns all accounts except the given one.
	List(ctx context.Context, excludeID string) ([]domain.Account, error)

	// SearchByName does a case-insensitive contains match on first name,
	// and on last name too when it is non-empty.
	SearchByName(ctx context.Context, firstName, lastName string) ([]domain.Account, error)
}

// Sessions holds each account's set of honoured refresh-credential
// fingerprints. Membership here plus a valid signature is what makes a
// refresh credential usable; the conditional delete is the atomic membership
// check the rotation protocol builds on.
type Sessions interface {
	// Create records a freshly minted refresh credential.
	Create(ctx context.Context, s domain.Session) error

	// DeleteByHash removes one credential and reports whether it was
	// present. Run inside a transaction this is the "remove X iff member"
	// step of rotation; a false return is the reuse signal.
	DeleteByHash(ctx context.Context, accountID, tokenHash string) (bool, error)

	// DeleteAllForAccount clears the whole set. This is the breach
	// response to a well-signed but unknown refresh credential.
	DeleteAllForAccount(ctx context.Context, accountID string) error

	// HasHash reports membership without mutating anything.
	HasHash(ctx context.Context, accountID, tokenHash string) (bool, error)

	// CountForAccount returns the number of live sessions for an account.
	CountForAccount(ctx context.Context, accountID string) (int, error)

	// DeleteExpired is housekeeping.
	DeleteExpired(ctx context.Context) error
}

type Posts interface {
	GetByID(ctx context.Context, id string) (domain.Post, error)
	Create(ctx context.Context, p domain.Post) error
	Update(ctx context.Context, p domain.Post) error
	Delete(ctx context.Context, id string) error

	// List returns all posts, or only those of ownerID when non-empty.
	List(ctx context.Context, ownerID string) ([]domain.Post, error)
}

type Comments interface {
	Create(ctx context.Context, c domain.Comment) error
	ListForPost(ctx context.Context, postID string) ([]domain.Comment, error)
}
