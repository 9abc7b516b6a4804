package ledger

import (
	"context"
	"database/sql"
	"fmt"
)

// CreateSchema creates the ledger tables if they do not exist. The UNIQUE
// constraints on identity_key and user_token are the database-level backstop
// for the one-vote-per-identity invariant: even if two transactions pass the
// duplicate pre-check concurrently, only one insert can commit.
func CreateSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS programs (
			id       BIGSERIAL PRIMARY KEY,
			name     TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			votes    BIGINT NOT NULL DEFAULT 0 CHECK (votes >= 0)
		)`,
		`CREATE TABLE IF NOT EXISTS vote_records (
			id           UUID PRIMARY KEY,
			identity_key TEXT NOT NULL UNIQUE,
			user_token   TEXT UNIQUE,
			program_id   BIGINT NOT NULL REFERENCES programs(id) ON DELETE CASCADE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
