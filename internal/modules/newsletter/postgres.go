package newsletter

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Add(ctx context.Context, s *Subscriber) (bool, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscribers (id, email)
		VALUES ($1, $2)
		ON CONFLICT (email) DO NOTHING
		RETURNING created_at`,
		s.ID, s.Email).Scan(&s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("insert subscriber: %w", err)
	}
	return true, nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*Subscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, created_at FROM newsletter_subscribers ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Subscriber
	for rows.Next() {
		s := &Subscriber{}
		if err := rows.Scan(&s.ID, &s.Email, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
