package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup; every statement is idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            BIGSERIAL PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	role          TEXT NOT NULL DEFAULT 'USER',
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS movies (
	id         BIGSERIAL PRIMARY KEY,
	title      TEXT NOT NULL,
	published  BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS cinemas (
	id   BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	city TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS screenings (
	id                      BIGSERIAL PRIMARY KEY,
	movie_id                BIGINT NOT NULL REFERENCES movies(id),
	cinema_id               BIGINT NOT NULL REFERENCES cinemas(id),
	start_at                TIMESTAMPTZ NOT NULL,
	end_at                  TIMESTAMPTZ NOT NULL,
	initial_available_seats INTEGER NOT NULL,
	active                  BOOLEAN NOT NULL DEFAULT TRUE,
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS products (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	price      NUMERIC(10,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS orders (
	id                  BIGSERIAL PRIMARY KEY,
	customer_id         BIGINT NOT NULL REFERENCES users(id),
	status              TEXT NOT NULL DEFAULT 'PAYING',
	checkout_session_id TEXT UNIQUE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservations (
	id           BIGSERIAL PRIMARY KEY,
	order_id     BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	screening_id BIGINT NOT NULL REFERENCES screenings(id),
	customer_id  BIGINT NOT NULL REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS reservation_products (
	id             BIGSERIAL PRIMARY KEY,
	reservation_id BIGINT NOT NULL REFERENCES reservations(id) ON DELETE CASCADE,
	product_id     BIGINT NOT NULL REFERENCES products(id),
	number         INTEGER NOT NULL CHECK (number > 0)
);

CREATE INDEX IF NOT EXISTS idx_reservations_screening ON reservations(screening_id);
CREATE INDEX IF NOT EXISTS idx_reservations_order ON reservations(order_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
`

func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
