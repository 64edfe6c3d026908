package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Statements are written to run on both PostgreSQL and sqlite; due_date
// is a plain calendar date stored as text, ids are uuid strings.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		owner_id    TEXT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		description TEXT,
		due_date    TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'todo',
		created_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks (owner_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_status ON tasks (owner_id, status)`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}
