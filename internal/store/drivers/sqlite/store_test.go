package sqlite_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/store"
	"github.com/lanternsoft/lantern/internal/store/drivers/sqlite"
	"github.com/lanternsoft/lantern/pkg/idx"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func seedAccount(t *testing.T, st *sqlite.Store, username string) domain.Account {
	t.Helper()

	a := domain.Account{
		ID:        idx.New().String(),
		Email:     username + "@example.com",
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
	}
	require.NoError(t, st.Accounts().Create(t.Context(), a))
	return a
}

func seedSession(t *testing.T, st store.Store, accountID, hash string, expiresAt time.Time) {
	t.Helper()

	require.NoError(t, st.Sessions().Create(t.Context(), domain.Session{
		ID:        idx.New().String(),
		AccountID: accountID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}))
}

func TestSessionsDeleteByHash(t *testing.T) {
	st := newStore(t)
	account := seedAccount(t, st, "alice")
	seedSession(t, st, account.ID, "hash-a", time.Now().Add(time.Hour))

	// Present: the delete consumes it and reports membership.
	removed, err := st.Sessions().DeleteByHash(t.Context(), account.ID, "hash-a")
	require.NoError(t, err)
	require.True(t, removed)

	// Absent now: same call reports non-membership.
	removed, err = st.Sessions().DeleteByHash(t.Context(), account.ID, "hash-a")
	require.NoError(t, err)
	require.False(t, removed)
}

func TestSessionsScopedToAccount(t *testing.T) {
	st := newStore(t)
	alice := seedAccount(t, st, "alice")
	bob := seedAccount(t, st, "bob")
	seedSession(t, st, alice.ID, "hash-a", time.Now().Add(time.Hour))
	seedSession(t, st, bob.ID, "hash-b", time.Now().Add(time.Hour))

	// A hash belonging to another account is not a member.
	removed, err := st.Sessions().DeleteByHash(t.Context(), alice.ID, "hash-b")
	require.NoError(t, err)
	require.False(t, removed)

	// Clearing alice leaves bob untouched.
	require.NoError(t, st.Sessions().DeleteAllForAccount(t.Context(), alice.ID))

	n, err := st.Sessions().CountForAccount(t.Context(), bob.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestSessionsDeleteExpired(t *testing.T) {
	st := newStore(t)
	account := seedAccount(t, st, "alice")
	seedSession(t, st, account.ID, "live", time.Now().Add(time.Hour))
	seedSession(t, st, account.ID, "dead", time.Now().Add(-time.Hour))

	require.NoError(t, st.Sessions().DeleteExpired(t.Context()))

	live, err := st.Sessions().HasHash(t.Context(), account.ID, "live")
	require.NoError(t, err)
	require.True(t, live)

	dead, err := st.Sessions().HasHash(t.Context(), account.ID, "dead")
	require.NoError(t, err)
	require.False(t, dead)
}

func TestSessionsCascadeOnAccountDelete(t *testing.T) {
	st := newStore(t)
	account := seedAccount(t, st, "alice")
	seedSession(t, st, account.ID, "hash-a", time.Now().Add(time.Hour))

	require.NoError(t, st.Accounts().Delete(t.Context(), account.ID))

	n, err := st.Sessions().CountForAccount(t.Context(), account.ID)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestAccountsUniqueConstraints(t *testing.T) {
	st := newStore(t)
	seedAccount(t, st, "alice")

	dup := domain.Account{
		ID:        idx.New().String(),
		Email:     "alice@example.com",
		Username:  "someone-else",
		FirstName: "Dup",
		LastName:  "User",
	}
	require.ErrorIs(t, st.Accounts().Create(t.Context(), dup), store.ErrAlreadyExists)
}

func TestWithTxRollsBackOnError(t *testing.T) {
	st := newStore(t)
	account := seedAccount(t, st, "alice")

	sentinel := store.ErrNotFound
	err := st.WithTx(t.Context(), func(tx store.Tx) error {
		seedSession(t, tx, account.ID, "hash-a", time.Now().Add(time.Hour))
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	n, err := st.Sessions().CountForAccount(t.Context(), account.ID)
	require.NoError(t, err)
	require.Equal(t, 0, n, "failed transaction must leave no trace")
}

func TestAccountsGetByUnknownID(t *testing.T) {
	st := newStore(t)

	_, err := st.Accounts().GetByID(t.Context(), "missing")
	require.ErrorIs(t, err, store.ErrNotFound)
}
