package sqlite

import (
	"context"
	"time"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/store"
)

type sessionsRepo struct {
	q querier
}

func (r *sessionsRepo) Create(ctx context.Context, s domain.Session) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO sessions (id, account_id, token_hash, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.AccountID, s.TokenHash, s.ExpiresAt.UTC(), time.Now().UTC(),
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// DeleteByHash is the conditional half of the rotation protocol: the delete
// succeeds only if the fingerprint is currently a member of the account's
// set, and the rows-affected count tells the caller which way it went.
func (r *sessionsRepo) DeleteByHash(ctx context.Context, accountID, tokenHash string) (bool, error) {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE account_id = ? AND token_hash = ?`,
		accountID, tokenHash)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *sessionsRepo) DeleteAllForAccount(ctx context.Context, accountID string) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE account_id = ?`, accountID)
	return err
}

func (r *sessionsRepo) HasHash(ctx context.Context, accountID, tokenHash string) (bool, error) {
	var one int
	err := r.q.QueryRowContext(ctx,
		`SELECT 1 FROM sessions WHERE account_id = ? AND token_hash = ?`,
		accountID, tokenHash).Scan(&one)
	if err != nil {
		if mapNotFound(err) == store.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *sessionsRepo) CountForAccount(ctx context.Context, accountID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sessions WHERE account_id = ?`, accountID).Scan(&n)
	return n, err
}

func (r *sessionsRepo) DeleteExpired(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	return err
}
