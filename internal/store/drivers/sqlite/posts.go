package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/lanternsoft/lantern/internal/domain"
)

type postsRepo struct {
	q querier
}

const postColumns = `id, owner_id, content, image_url, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.OwnerID, &p.Content, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) GetByID(ctx context.Context, id string) (domain.Post, error) {
	return scanPost(r.q.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
}

func (r *postsRepo) Create(ctx context.Context, p domain.Post) error {
	now := time.Now().UTC()
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO posts (id, owner_id, content, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.OwnerID, p.Content, p.ImageURL, now, now,
	)
	return err
}

func (r *postsRepo) Update(ctx context.Context, p domain.Post) error {
	res, err := r.q.ExecContext(ctx,
		`UPDATE posts SET content = ?, image_url = ?, updated_at = ? WHERE id = ?`,
		p.Content, p.ImageURL, time.Now().UTC(), p.ID,
	)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *postsRepo) List(ctx context.Context, ownerID string) ([]domain.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if ownerID == "" {
		rows, err = r.q.QueryContext(ctx,
			`SELECT `+postColumns+` FROM posts ORDER BY created_at DESC`)
	} else {
		rows, err = r.q.QueryContext(ctx,
			`SELECT `+postColumns+` FROM posts WHERE owner_id = ? ORDER BY created_at DESC`,
			ownerID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
