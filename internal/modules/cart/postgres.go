package cart

import (
	"context"
	"database/sql"
	"errors"
)

type postgresPersister struct{ db *sql.DB }

func NewPostgresPersister(db *sql.DB) Persister { return &postgresPersister{db: db} }

func (p *postgresPersister) Load(ctx context.Context, key string) ([]byte, error) {
	var items []byte
	err := p.db.QueryRowContext(ctx, `SELECT items FROM carts WHERE session_key=$1`, key).Scan(&items)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCart
	}
	return items, err
}

func (p *postgresPersister) Save(ctx context.Context, key string, data []byte) error {
	// jsonb must be sent as text; pq encodes []byte as bytea.
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO carts (session_key, items, updated_at) VALUES ($1, $2::jsonb, NOW())
		ON CONFLICT (session_key) DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()`,
		key, string(data))
	return err
}
