package datastore

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements are idempotent so startup can run them unconditionally.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS user_tokens (
		seq BIGSERIAL PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		access TEXT NOT NULL,
		token TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS todos (
		seq BIGSERIAL PRIMARY KEY,
		id UUID NOT NULL UNIQUE,
		text TEXT NOT NULL,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at BIGINT,
		creator UUID
	)`,
}

// EnsureSchema creates the tables the repositories depend on. The email
// unique index is the backstop for concurrent duplicate signups.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
