package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/identity"
	"github.com/lanternsoft/lantern/internal/service"
)

// stubExchanger accepts exactly one assertion string and rejects the rest.
type stubExchanger struct {
	assertion string
	subject   identity.Subject
}

func (s *stubExchanger) Exchange(_ context.Context, assertion string) (identity.Subject, error) {
	if assertion != s.assertion {
		return identity.Subject{}, identity.ErrRejected
	}
	return s.subject, nil
}

func newAccountService(t *testing.T) (*service.AccountService, *service.TokenService) {
	t.Helper()

	st := newTestStore(t)
	tokens := newTokenService(t, st)
	exchanger := &stubExchanger{
		assertion: "good-assertion",
		subject: identity.Subject{
			Email:     "carol@example.com",
			FirstName: "Carol",
			LastName:  "External",
		},
	}
	return service.NewAccountService(st, tokens, exchanger), tokens
}

func validDraft() domain.AccountDraft {
	return domain.AccountDraft{
		Email:     "alice@example.com",
		Username:  "alice",
		Password:  "hunter2hunter2",
		FirstName: "Alice",
		LastName:  "Anderson",
	}
}

func TestRegister(t *testing.T) {
	accounts, _ := newAccountService(t)

	account, pair, err := accounts.Register(t.Context(), validDraft())
	require.NoError(t, err)
	require.NotEmpty(t, account.ID)
	require.Equal(t, "alice", account.Username)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	// The stored hash is not the password.
	require.NotEqual(t, "hunter2hunter2", account.PasswordHash)
}

func TestRegisterValidation(t *testing.T) {
	accounts, _ := newAccountService(t)

	for name, mutate := range map[string]func(*domain.AccountDraft){
		"missing email":      func(d *domain.AccountDraft) { d.Email = "" },
		"missing username":   func(d *domain.AccountDraft) { d.Username = "" },
		"missing password":   func(d *domain.AccountDraft) { d.Password = "" },
		"missing first name": func(d *domain.AccountDraft) { d.FirstName = "" },
		"missing last name":  func(d *domain.AccountDraft) { d.LastName = "" },
	} {
		t.Run(name, func(t *testing.T) {
			draft := validDraft()
			mutate(&draft)
			_, _, err := accounts.Register(t.Context(), draft)
			require.ErrorIs(t, err, service.ErrValidation)
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	accounts, _ := newAccountService(t)

	_, _, err := accounts.Register(t.Context(), validDraft())
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		draft := validDraft()
		draft.Username = "alice2"
		_, _, err := accounts.Register(t.Context(), draft)
		require.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("duplicate username", func(t *testing.T) {
		draft := validDraft()
		draft.Email = "alice2@example.com"
		_, _, err := accounts.Register(t.Context(), draft)
		require.ErrorIs(t, err, service.ErrConflict)
	})
}

func TestLogin(t *testing.T) {
	accounts, _ := newAccountService(t)

	_, _, err := accounts.Register(t.Context(), validDraft())
	require.NoError(t, err)

	account, pair, err := accounts.Login(t.Context(), "alice", "hunter2hunter2")
	require.NoError(t, err)
	require.Equal(t, "alice", account.Username)
	require.NotEmpty(t, pair.RefreshToken)

	// Wrong password and unknown username fail identically.
	_, _, badPass := accounts.Login(t.Context(), "alice", "wrong-password")
	require.ErrorIs(t, badPass, service.ErrUnauthorized)

	_, _, badUser := accounts.Login(t.Context(), "nobody", "hunter2hunter2")
	require.ErrorIs(t, badUser, service.ErrUnauthorized)
}

func TestLoginWithIdentity(t *testing.T) {
	accounts, _ := newAccountService(t)

	// First contact provisions an account.
	account, pair, err := accounts.LoginWithIdentity(t.Context(), "good-assertion")
	require.NoError(t, err)
	require.Equal(t, "carol@example.com", account.Email)
	require.Empty(t, account.PasswordHash)
	require.NotEmpty(t, pair.RefreshToken)

	// Second sign-in reuses the same account.
	again, _, err := accounts.LoginWithIdentity(t.Context(), "good-assertion")
	require.NoError(t, err)
	require.Equal(t, account.ID, again.ID)

	// Provisioned accounts cannot be logged into with any password.
	_, _, err = accounts.Login(t.Context(), account.Username, "")
	require.ErrorIs(t, err, service.ErrValidation)
	_, _, err = accounts.Login(t.Context(), account.Username, "anything")
	require.ErrorIs(t, err, service.ErrUnauthorized)

	// Rejected assertions look like any other bad credential.
	_, _, err = accounts.LoginWithIdentity(t.Context(), "bad-assertion")
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	accounts, _ := newAccountService(t)

	alice, _, err := accounts.Register(t.Context(), validDraft())
	require.NoError(t, err)

	bobDraft := validDraft()
	bobDraft.Email = "bob@example.com"
	bobDraft.Username = "bob"
	bob, _, err := accounts.Register(t.Context(), bobDraft)
	require.NoError(t, err)

	t.Run("self update", func(t *testing.T) {
		first := "Alicia"
		updated, err := accounts.Update(t.Context(), alice.ID, alice.ID, service.AccountPatch{FirstName: &first})
		require.NoError(t, err)
		require.Equal(t, "Alicia", updated.FirstName)
		require.Equal(t, "alice", updated.Username, "untouched fields keep their value")
	})

	t.Run("foreign update forbidden", func(t *testing.T) {
		first := "Mallory"
		_, err := accounts.Update(t.Context(), alice.ID, bob.ID, service.AccountPatch{FirstName: &first})
		require.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("taken username conflicts", func(t *testing.T) {
		taken := "bob"
		_, err := accounts.Update(t.Context(), alice.ID, alice.ID, service.AccountPatch{Username: &taken})
		require.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("password change", func(t *testing.T) {
		next := "correct-horse-battery"
		_, err := accounts.Update(t.Context(), alice.ID, alice.ID, service.AccountPatch{Password: &next})
		require.NoError(t, err)

		_, _, err = accounts.Login(t.Context(), "alice", "hunter2hunter2")
		require.ErrorIs(t, err, service.ErrUnauthorized)
		_, _, err = accounts.Login(t.Context(), "alice", "correct-horse-battery")
		require.NoError(t, err)
	})
}

func TestListAndSearch(t *testing.T) {
	accounts, _ := newAccountService(t)

	alice, _, err := accounts.Register(t.Context(), validDraft())
	require.NoError(t, err)

	bobDraft := validDraft()
	bobDraft.Email = "bob@example.com"
	bobDraft.Username = "bob"
	bobDraft.FirstName = "Bob"
	bobDraft.LastName = "Builder"
	_, _, err = accounts.Register(t.Context(), bobDraft)
	require.NoError(t, err)

	t.Run("list excludes caller", func(t *testing.T) {
		others, err := accounts.List(t.Context(), alice.ID)
		require.NoError(t, err)
		require.Len(t, others, 1)
		require.Equal(t, "bob", others[0].Username)
	})

	t.Run("search is case-insensitive contains", func(t *testing.T) {
		found, err := accounts.SearchByName(t.Context(), "oB")
		require.NoError(t, err)
		require.Len(t, found, 1)
		require.Equal(t, "bob", found[0].Username)
	})

	t.Run("search with last name", func(t *testing.T) {
		found, err := accounts.SearchByName(t.Context(), "bob build")
		require.NoError(t, err)
		require.Len(t, found, 1)
	})

	t.Run("empty query rejected", func(t *testing.T) {
		_, err := accounts.SearchByName(t.Context(), "   ")
		require.ErrorIs(t, err, service.ErrValidation)
	})
}

func TestDeleteAccount(t *testing.T) {
	accounts, tokens := newAccountService(t)

	alice, pair, err := accounts.Register(t.Context(), validDraft())
	require.NoError(t, err)

	t.Run("foreign delete forbidden", func(t *testing.T) {
		require.ErrorIs(t, accounts.Delete(t.Context(), "someone-else", alice.ID), service.ErrForbidden)
	})

	require.NoError(t, accounts.Delete(t.Context(), alice.ID, alice.ID))

	// The account and its sessions are gone.
	_, err = accounts.Get(t.Context(), alice.ID)
	require.ErrorIs(t, err, service.ErrNotFound)
	_, err = tokens.Rotate(t.Context(), pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidSession)
}
