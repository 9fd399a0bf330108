package storage

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL DEFAULT '',
		price       NUMERIC(10,2) NOT NULL,
		currency    TEXT NOT NULL DEFAULT 'USD',
		image_url   TEXT NOT NULL DEFAULT '',
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS products_name_idx ON products (lower(name))`,
	`CREATE TABLE IF NOT EXISTS orders (
		id             UUID PRIMARY KEY,
		order_number   TEXT NOT NULL UNIQUE,
		status         TEXT NOT NULL,
		customer_name  TEXT NOT NULL,
		customer_email TEXT NOT NULL,
		customer_phone TEXT NOT NULL,
		fulfillment    TEXT NOT NULL,
		address        TEXT NOT NULL DEFAULT '',
		requested_date TEXT NOT NULL DEFAULT '',
		notes          TEXT NOT NULL DEFAULT '',
		subtotal       NUMERIC(10,2) NOT NULL,
		delivery_fee   NUMERIC(10,2) NOT NULL,
		total          NUMERIC(10,2) NOT NULL,
		currency       TEXT NOT NULL,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		id         UUID PRIMARY KEY,
		order_id   UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		item_key   TEXT NOT NULL,
		name       TEXT NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity > 0),
		unit_price NUMERIC(10,2) NOT NULL,
		line_total NUMERIC(10,2) NOT NULL,
		position   INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS newsletter_subscribers (
		id         UUID PRIMARY KEY,
		email      TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL,
		phone      TEXT NOT NULL DEFAULT '',
		message    TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		session_key TEXT PRIMARY KEY,
		items       JSONB NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS carts (
		session_key TEXT PRIMARY KEY,
		items       TEXT NOT NULL,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}
