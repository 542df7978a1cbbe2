package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements is the full relational schema. The unique constraints on
// books.isbn, users.username, users.email and authors(first_name, last_name)
// are the authoritative duplicate guards; application pre-checks are advisory.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS roles (
		id   SMALLINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id            BIGSERIAL PRIMARY KEY,
		username      TEXT NOT NULL UNIQUE,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role_id       SMALLINT NOT NULL REFERENCES roles (id),
		registered_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS authors (
		id          BIGSERIAL PRIMARY KEY,
		first_name  TEXT NOT NULL,
		last_name   TEXT NOT NULL,
		nationality TEXT NOT NULL DEFAULT '',
		UNIQUE (first_name, last_name)
	)`,
	`CREATE TABLE IF NOT EXISTS books (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		isbn             TEXT NOT NULL UNIQUE,
		publication_year INT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		available        BOOLEAN NOT NULL DEFAULT TRUE,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS book_authors (
		book_id   BIGINT NOT NULL REFERENCES books (id),
		author_id BIGINT NOT NULL REFERENCES authors (id),
		PRIMARY KEY (book_id, author_id)
	)`,
	`CREATE TABLE IF NOT EXISTS loans (
		id          BIGSERIAL PRIMARY KEY,
		book_id     BIGINT NOT NULL REFERENCES books (id),
		borrower_id BIGINT NOT NULL REFERENCES users (id),
		loan_date   DATE NOT NULL,
		due_date    DATE NOT NULL,
		returned_at DATE,
		status      TEXT NOT NULL CHECK (status IN ('on_loan', 'overdue', 'returned'))
	)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_book_status ON loans (book_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_loans_borrower ON loans (borrower_id)`,
	`INSERT INTO roles (id, name) VALUES (1, 'admin'), (2, 'member') ON CONFLICT DO NOTHING`,
}

// Migrate applies the schema and seeds the role table. Every statement is
// idempotent, so running it on every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate schema: %w", err)
		}
	}
	return nil
}
