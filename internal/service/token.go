package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/store"
	"github.com/lanternsoft/lantern/pkg/cryptox"
	"github.com/lanternsoft/lantern/pkg/idx"
	"github.com/lanternsoft/lantern/pkg/jwtx"
	"github.com/lanternsoft/lantern/pkg/slogx"
)

// TokenService mints and rotates session credential pairs. Access tokens are
// verified statelessly; refresh tokens are additionally checked against the
// account's persisted session set, and each one is good for exactly one
// rotation.
type TokenService struct {
	Signer   *jwtx.Signer
	Verifier *jwtx.Verifier
	Store    store.Store

	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenService(signer *jwtx.Signer, verifier *jwtx.Verifier, st store.Store, issuer string) *TokenService {
	return &TokenService{
		Signer:     signer,
		Verifier:   verifier,
		Store:      st,
		Issuer:     issuer,
		AccessTTL:  jwtx.DefaultAccessTTL,
		RefreshTTL: jwtx.DefaultRefreshTTL,
	}
}

// mintPair signs a fresh access/refresh pair for the account and returns the
// pair together with the refresh credential's storage fingerprint and expiry.
// Nothing is persisted here.
func (s *TokenService) mintPair(accountID string, now time.Time) (domain.SessionPair, string, time.Time, error) {
	access, err := s.Signer.Sign(jwtx.NewSessionClaims(accountID, jwtx.PurposeAccess, s.Issuer, s.AccessTTL, now))
	if err != nil {
		return domain.SessionPair{}, "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh, err := s.Signer.Sign(jwtx.NewSessionClaims(accountID, jwtx.PurposeRefresh, s.Issuer, s.RefreshTTL, now))
	if err != nil {
		return domain.SessionPair{}, "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	pair := domain.SessionPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.AccessTTL.Seconds()),
	}
	return pair, cryptox.FingerprintToken(refresh), now.Add(s.RefreshTTL), nil
}

// IssueSessionPair starts a new session for the account: it mints a pair and
// records the refresh credential in the account's session set. Each call
// creates an independent session, so an account may be signed in from several
// devices at once.
func (s *TokenService) IssueSessionPair(ctx context.Context, accountID string) (domain.SessionPair, error) {
	now := time.Now()

	pair, hash, expiresAt, err := s.mintPair(accountID, now)
	if err != nil {
		return domain.SessionPair{}, err
	}

	session := domain.Session{
		ID:        idx.New().String(),
		AccountID: accountID,
		TokenHash: hash,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.Store.Sessions().Create(ctx, session); err != nil {
		return domain.SessionPair{}, fmt.Errorf("persist session: %w", err)
	}

	return pair, nil
}

// Rotate exchanges a refresh credential for a fresh pair. The presented
// credential is consumed in the same transaction that records its successor,
// so a given refresh token rotates at most once.
//
// A well-signed credential that is not in the session set has already been
// used or revoked, which is treated as evidence of theft: the whole session
// set for the account is cleared before ErrSessionRevoked is returned. The
// clear is committed even though the call fails.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (domain.SessionPair, error) {
	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return domain.SessionPair{}, ErrInvalidSession
	}
	if err := claims.RequirePurpose(jwtx.PurposeRefresh); err != nil {
		return domain.SessionPair{}, ErrInvalidSession
	}
	accountID := claims.Subject

	if _, err := s.Store.Accounts().GetByID(ctx, accountID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.SessionPair{}, ErrInvalidSession
		}
		return domain.SessionPair{}, fmt.Errorf("load account: %w", err)
	}

	hash := cryptox.FingerprintToken(refreshToken)
	now := time.Now()

	var (
		pair   domain.SessionPair
		reused bool
	)
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		removed, err := tx.Sessions().DeleteByHash(ctx, accountID, hash)
		if err != nil {
			return err
		}
		if !removed {
			// Reuse detected. Clear the set and commit; the caller still
			// gets a failure.
			reused = true
			return tx.Sessions().DeleteAllForAccount(ctx, accountID)
		}

		next, nextHash, expiresAt, err := s.mintPair(accountID, now)
		if err != nil {
			return err
		}
		if err := tx.Sessions().Create(ctx, domain.Session{
			ID:        idx.New().String(),
			AccountID: accountID,
			TokenHash: nextHash,
			ExpiresAt: expiresAt,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		pair = next
		return nil
	})
	if err != nil {
		return domain.SessionPair{}, fmt.Errorf("rotate session: %w", err)
	}
	if reused {
		slogx.FromContext(ctx).Warn("refresh token reuse detected, sessions cleared",
			slog.String("account_id", accountID))
		return domain.SessionPair{}, ErrSessionRevoked
	}

	return pair, nil
}

// Revoke ends the session the refresh credential belongs to. Revoking a
// credential that is no longer in the set clears the whole set, same as
// Rotate, but the call itself succeeds either way so sign-out is idempotent.
func (s *TokenService) Revoke(ctx context.Context, refreshToken string) error {
	claims, err := s.Verifier.Verify(refreshToken)
	if err != nil {
		return ErrInvalidSession
	}
	if err := claims.RequirePurpose(jwtx.PurposeRefresh); err != nil {
		return ErrInvalidSession
	}
	accountID := claims.Subject

	hash := cryptox.FingerprintToken(refreshToken)
	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		removed, err := tx.Sessions().DeleteByHash(ctx, accountID, hash)
		if err != nil {
			return err
		}
		if !removed {
			slogx.FromContext(ctx).Warn("revoke of unknown refresh token, sessions cleared",
				slog.String("account_id", accountID))
			return tx.Sessions().DeleteAllForAccount(ctx, accountID)
		}
		return nil
	})
}
