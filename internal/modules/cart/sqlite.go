package cart

import (
	"context"
	"database/sql"
	"errors"
)

type sqlitePersister struct{ db *sql.DB }

// NewSQLitePersister stores carts in the local carts table opened by storage.OpenSQLite.
func NewSQLitePersister(db *sql.DB) Persister { return &sqlitePersister{db: db} }

func (p *sqlitePersister) Load(ctx context.Context, key string) ([]byte, error) {
	var items string
	err := p.db.QueryRowContext(ctx, `SELECT items FROM carts WHERE session_key = ?`, key).Scan(&items)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCart
	}
	if err != nil {
		return nil, err
	}
	return []byte(items), nil
}

func (p *sqlitePersister) Save(ctx context.Context, key string, data []byte) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO carts (session_key, items, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(session_key) DO UPDATE SET items = excluded.items, updated_at = CURRENT_TIMESTAMP`,
		key, string(data))
	return err
}
