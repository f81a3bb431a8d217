package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/service"
	"github.com/lanternsoft/lantern/internal/store"
	"github.com/lanternsoft/lantern/internal/store/drivers/sqlite"
	"github.com/lanternsoft/lantern/pkg/cryptox"
	"github.com/lanternsoft/lantern/pkg/idx"
	"github.com/lanternsoft/lantern/pkg/jwtx"
)

const testIssuer = "lantern-test"

// newTestStore opens a migrated sqlite store on a per-test temp file.
func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore("file:" + filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

func newSigningPair(t *testing.T) (*jwtx.Signer, *jwtx.Verifier) {
	t.Helper()

	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)

	signer, err := jwtx.NewSigner("test-key", pemKey)
	require.NoError(t, err)

	verifier := jwtx.NewVerifier(testIssuer)
	verifier.AddSigner(signer)
	return signer, verifier
}

func newTokenService(t *testing.T, st store.Store) *service.TokenService {
	t.Helper()

	signer, verifier := newSigningPair(t)
	return service.NewTokenService(signer, verifier, st, testIssuer)
}

// seedAccount inserts an account with a known password and returns it.
func seedAccount(t *testing.T, st store.Store, username string) domain.Account {
	t.Helper()

	hash, err := cryptox.HashPassword("hunter2hunter2")
	require.NoError(t, err)

	account := domain.Account{
		ID:           idx.New().String(),
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: hash,
	}
	require.NoError(t, st.Accounts().Create(context.Background(), account))
	return account
}

func sessionCount(t *testing.T, st store.Store, accountID string) int {
	t.Helper()

	n, err := st.Sessions().CountForAccount(context.Background(), accountID)
	require.NoError(t, err)
	return n
}
