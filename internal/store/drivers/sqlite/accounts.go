package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/lanternsoft/lantern/internal/domain"
	"github.com/lanternsoft/lantern/internal/store"
)

type accountsRepo struct {
	q querier
}

const accountColumns = `id, email, username, first_name, last_name, avatar_url, password_hash, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.Username, &a.FirstName, &a.LastName,
		&a.AvatarURL, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return domain.Account{}, mapNotFound(err)
	}
	return a, nil
}

func (r *accountsRepo) GetByID(ctx context.Context, id string) (domain.Account, error) {
	return scanAccount(r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id))
}

func (r *accountsRepo) GetByUsername(ctx context.Context, username string) (domain.Account, error) {
	return scanAccount(r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE username = ?`, username))
}

func (r *accountsRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	return scanAccount(r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ?`, email))
}

func (r *accountsRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (domain.Account, error) {
	return scanAccount(r.q.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = ? OR username = ? LIMIT 1`,
		email, username))
}

func (r *accountsRepo) Create(ctx context.Context, a domain.Account) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO accounts (id, email, username, first_name, last_name, avatar_url, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Email, a.Username, a.FirstName, a.LastName, a.AvatarURL, a.PasswordHash, now, now,
	)
	if err != nil && isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *accountsRepo) Update(ctx context.Context, a domain.Account) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE accounts
		 SET email = ?, username = ?, first_name = ?, last_name = ?, avatar_url = ?, password_hash = ?, updated_at = ?
		 WHERE id = ?`,
		a.Email, a.Username, a.FirstName, a.LastName, a.AvatarURL, a.PasswordHash, time.Now().UTC(), a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *accountsRepo) List(ctx context.Context, excludeID string) ([]domain.Account, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id != ? ORDER BY created_at DESC`,
		excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func (r *accountsRepo) SearchByName(ctx context.Context, firstName, lastName string) ([]domain.Account, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if lastName == "" {
		rows, err = r.q.QueryContext(ctx,
			`SELECT `+accountColumns+` FROM accounts
			 WHERE first_name LIKE ? ESCAPE '\'
			 ORDER BY first_name, last_name`,
			contains(firstName))
	} else {
		rows, err = r.q.QueryContext(ctx,
			`SELECT `+accountColumns+` FROM accounts
			 WHERE first_name LIKE ? ESCAPE '\' AND last_name LIKE ? ESCAPE '\'
			 ORDER BY first_name, last_name`,
			contains(firstName), contains(lastName))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAccounts(rows)
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	var out []domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// contains builds a LIKE pattern matching anywhere in the column, escaping
// the LIKE metacharacters in the needle.
func contains(needle string) string {
	replacer := strings.NewReplacer(`%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(needle) + "%"
}
