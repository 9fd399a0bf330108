package contact

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresRepo struct{ db *sql.DB }

func NewPostgresRepository(db *sql.DB) Repository { return &postgresRepo{db: db} }

func (r *postgresRepo) Create(ctx context.Context, m *Message) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO contact_messages (id, name, email, phone, message)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		m.ID, m.Name, m.Email, m.Phone, m.Message).Scan(&m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact message: %w", err)
	}
	return nil
}

func (r *postgresRepo) List(ctx context.Context) ([]*Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, message, created_at
		FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*Message
	for rows.Next() {
		m := &Message{}
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
