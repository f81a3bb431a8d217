package sqlite

import (
	"context"
	"time"

	"github.com/lanternsoft/lantern/internal/domain"
)

type commentsRepo struct {
	q querier
}

func (r *commentsRepo) Create(ctx context.Context, c domain.Comment) error {
	_, err := r.q.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_id, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.PostID, c.AuthorID, c.Content, time.Now().UTC(),
	)
	return err
}

func (r *commentsRepo) ListForPost(ctx context.Context, postID string) ([]domain.Comment, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT id, post_id, author_id, content, created_at
		 FROM comments WHERE post_id = ? ORDER BY created_at ASC, id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
