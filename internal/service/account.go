package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/identity"
	"github.com/lanternsoft/lantern/internal/store"
	"github.com/lanternsoft/lantern/pkg/cryptox"
	"github.com/lanternsoft/lantern/pkg/idx"
	"github.com/lanternsoft/lantern/pkg/slogx"
)

// AccountService owns registration, login and profile management for the
// account directory.
type AccountService struct {
	Store    store.Store
	Tokens   *TokenService
	Identity identity.Exchanger
}

func NewAccountService(st store.Store, tokens *TokenService, exchanger identity.Exchanger) *AccountService {
	return &AccountService{Store: st, Tokens: tokens, Identity: exchanger}
}

// AccountPatch carries a partial profile update. Nil fields are untouched.
type AccountPatch struct {
	Email     *string `json:"email"`
	Username  *string `json:"username"`
	Password  *string `json:"password"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	AvatarURL *string `json:"imgUrl"`
}

// Register creates an account and signs it in, returning the new account's
// first session pair.
func (s *AccountService) Register(ctx context.Context, draft domain.AccountDraft) (domain.Account, domain.SessionPair, error) {
	if draft.Email == "" || draft.Username == "" || draft.Password == "" ||
		draft.FirstName == "" || draft.LastName == "" {
		return domain.Account{}, domain.SessionPair{}, ErrValidation
	}

	_, err := s.Store.Accounts().FindByEmailOrUsername(ctx, draft.Email, draft.Username)
	switch {
	case err == nil:
		return domain.Account{}, domain.SessionPair{}, ErrConflict
	case !errors.Is(err, store.ErrNotFound):
		return domain.Account{}, domain.SessionPair{}, fmt.Errorf("check uniqueness: %w", err)
	}

	hash, err := cryptox.HashPassword(draft.Password)
	if err != nil {
		return domain.Account{}, domain.SessionPair{}, fmt.Errorf("hash password: %w", err)
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Email:        draft.Email,
		Username:     draft.Username,
		FirstName:    draft.FirstName,
		LastName:     draft.LastName,
		AvatarURL:    draft.AvatarURL,
		PasswordHash: hash,
	}
	if err := s.Store.Accounts().Create(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, domain.SessionPair{}, ErrConflict
		}
		return domain.Account{}, domain.SessionPair{}, fmt.Errorf("create account: %w", err)
	}

	pair, err := s.Tokens.IssueSessionPair(ctx, account.ID)
	if err != nil {
		return domain.Account{}, domain.SessionPair{}, err
	}

	slogx.FromContext(ctx).Info("account registered", slog.String("account_id", account.ID))
	return account, pair, nil
}

// Login authenticates by username and password. Unknown username and wrong
// password fail identically.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.Account, domain.SessionPair, error) {
	if username == "" || password == "" {
		return domain.Account{}, domain.SessionPair{}, ErrValidation
	}

	account, err := s.Store.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, domain.SessionPair{}, ErrUnauthorized
		}
		return domain.Account{}, domain.SessionPair{}, fmt.Errorf("load account: %w", err)
	}

	// Identity-provisioned accounts have no hash; VerifyPassword rejects
	// those as well.
	if !cryptox.VerifyPassword(password, account.PasswordHash) {
		return domain.Account{}, domain.SessionPair{}, ErrUnauthorized
	}

	pair, err := s.Tokens.IssueSessionPair(ctx, account.ID)
	if err != nil {
		return domain.Account{}, domain.SessionPair{}, err
	}
	return account, pair, nil
}

// LoginWithIdentity exchanges an external identity assertion and signs in the
// matching account, provisioning one on first contact. Provisioned accounts
// carry no password hash and can only ever sign in this way.
func (s *AccountService) LoginWithIdentity(ctx context.Context, assertion string) (domain.Account, domain.SessionPair, error) {
	if s.Identity == nil {
		return domain.Account{}, domain.SessionPair{}, ErrUnauthorized
	}

	subject, err := s.Identity.Exchange(ctx, assertion)
	if err != nil {
		if errors.Is(err, identity.ErrRejected) {
			return domain.Account{}, domain.SessionPair{}, ErrUnauthorized
		}
		return domain.Account{}, domain.SessionPair{}, fmt.Errorf("exchange identity assertion: %w", err)
	}

	account, err := s.Store.Accounts().GetByEmail(ctx, subject.Email)
	switch {
	case errors.Is(err, store.ErrNotFound):
		account = domain.Account{
			ID:        idx.New().String(),
			Email:     subject.Email,
			Username:  subject.Email,
			FirstName: subject.FirstName,
			LastName:  subject.LastName,
			AvatarURL: subject.AvatarURL,
		}
		if err := s.Store.Accounts().Create(ctx, account); err != nil {
			return domain.Account{}, domain.SessionPair{}, fmt.Errorf("provision account: %w", err)
		}
		slogx.FromContext(ctx).Info("account provisioned via identity provider",
			slog.String("account_id", account.ID))
	case err != nil:
		return domain.Account{}, domain.SessionPair{}, fmt.Errorf("load account: %w", err)
	}

	pair, err := s.Tokens.IssueSessionPair(ctx, account.ID)
	if err != nil {
		return domain.Account{}, domain.SessionPair{}, err
	}
	return account, pair, nil
}

// Get returns one account by id.
func (s *AccountService) Get(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

// List returns every account except the caller's own.
func (s *AccountService) List(ctx context.Context, callerID string) ([]domain.Account, error) {
	return s.Store.Accounts().List(ctx, callerID)
}

// SearchByName splits the query on whitespace and matches first name against
// the first word and last name against the remainder, both case-insensitive
// contains.
func (s *AccountService) SearchByName(ctx context.Context, query string) ([]domain.Account, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrValidation
	}

	first, last, _ := strings.Cut(query, " ")
	return s.Store.Accounts().SearchByName(ctx, first, strings.TrimSpace(last))
}

// Update applies a partial profile update. Callers may only update their own
// account; changing email or username re-runs the uniqueness probe.
func (s *AccountService) Update(ctx context.Context, callerID, targetID string, patch AccountPatch) (domain.Account, error) {
	if callerID != targetID {
		return domain.Account{}, ErrForbidden
	}

	account, err := s.Store.Accounts().GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrNotFound
		}
		return domain.Account{}, err
	}

	if patch.Email != nil && *patch.Email != "" {
		account.Email = *patch.Email
	}
	if patch.Username != nil && *patch.Username != "" {
		account.Username = *patch.Username
	}
	if patch.FirstName != nil && *patch.FirstName != "" {
		account.FirstName = *patch.FirstName
	}
	if patch.LastName != nil && *patch.LastName != "" {
		account.LastName = *patch.LastName
	}
	if patch.AvatarURL != nil {
		account.AvatarURL = *patch.AvatarURL
	}
	if patch.Password != nil && *patch.Password != "" {
		hash, err := cryptox.HashPassword(*patch.Password)
		if err != nil {
			return domain.Account{}, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = hash
	}

	if other, err := s.Store.Accounts().FindByEmailOrUsername(ctx, account.Email, account.Username); err == nil {
		if other.ID != account.ID {
			return domain.Account{}, ErrConflict
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Account{}, fmt.Errorf("check uniqueness: %w", err)
	}

	if err := s.Store.Accounts().Update(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Account{}, ErrConflict
		}
		return domain.Account{}, fmt.Errorf("update account: %w", err)
	}
	return account, nil
}

// Delete removes the caller's own account. Sessions, posts and comments go
// with it.
func (s *AccountService) Delete(ctx context.Context, callerID, targetID string) error {
	if callerID != targetID {
		return ErrForbidden
	}
	if err := s.Store.Accounts().Delete(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	slogx.FromContext(ctx).Info("account deleted", slog.String("account_id", targetID))
	return nil
}
