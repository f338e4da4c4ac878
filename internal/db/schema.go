package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The two unique indexes carry the data-model invariants: one account per
// email, one entry per phone number within an owner's list. Uniqueness is
// enforced here, atomically, not by application-level locks.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	email         TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	created_at    TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS users_email_uniq ON users (email);

CREATE TABLE IF NOT EXISTS contacts (
	id          UUID PRIMARY KEY,
	first_name  TEXT NOT NULL,
	last_name   TEXT NOT NULL,
	phone       TEXT NOT NULL,
	owner_email TEXT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS contacts_owner_phone_uniq ON contacts (owner_email, phone);
`

// EnsureSchema bootstraps tables and unique indexes. Idempotent, run at startup.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schema)

	return err
}
