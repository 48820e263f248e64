package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            uuid PRIMARY KEY,
	email         text NOT NULL UNIQUE,
	password_hash text NOT NULL,
	created_at    timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS profiles (
	id         uuid PRIMARY KEY REFERENCES users (id) ON DELETE CASCADE,
	role       text NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member')),
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS complaints (
	id               uuid PRIMARY KEY,
	complaint_id     text NOT NULL UNIQUE,
	user_id          uuid REFERENCES users (id),
	name             text NOT NULL,
	mobile           text NOT NULL,
	category         text NOT NULL,
	description      text NOT NULL,
	location_lat     double precision,
	location_lng     double precision,
	location_address text NOT NULL,
	photo_url        text,
	status           text NOT NULL DEFAULT 'Pending'
		CHECK (status IN ('Pending', 'In Progress', 'Resolved')),
	remarks          text,
	created_at       timestamptz NOT NULL DEFAULT now(),
	updated_at       timestamptz NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS complaints_created_at_idx ON complaints (created_at DESC);
CREATE INDEX IF NOT EXISTS complaints_status_idx ON complaints (status);
`

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)
	return err
}
