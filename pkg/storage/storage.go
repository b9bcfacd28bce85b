// Package storage opens the gateway's relational store and applies its
// schema migrations at startup.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3" // database/sql driver
)

// Open opens (creating if necessary) the sqlite database at path and
// applies auto-migrations. Foreign keys are enabled per connection.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if err := applyAutoMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return db, nil
}

// applyAutoMigrations creates the schema if it does not exist yet.
// Statements are idempotent so this is safe to run on every startup.
func applyAutoMigrations(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		// accounts
		"CREATE TABLE IF NOT EXISTS accounts (\n\t id TEXT PRIMARY KEY,\n\t display_name TEXT,\n\t email TEXT,\n\t created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP\n)",
		// identities: one external credential bound to exactly one account.
		// The (provider, identifier) pair is globally unique; resolve-or-create
		// and linking both rely on this constraint for concurrency safety.
		"CREATE TABLE IF NOT EXISTS identities (\n\t id INTEGER PRIMARY KEY AUTOINCREMENT,\n\t account_id TEXT NOT NULL,\n\t provider TEXT NOT NULL,\n\t identifier TEXT NOT NULL,\n\t email TEXT,\n\t display_name TEXT,\n\t created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,\n\t UNIQUE(provider, identifier),\n\t FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE\n)",
		"CREATE INDEX IF NOT EXISTS idx_identities_account ON identities(account_id)",
		// nonces: at most one live challenge per wallet address
		"CREATE TABLE IF NOT EXISTS nonces (\n\t address TEXT PRIMARY KEY,\n\t value TEXT NOT NULL,\n\t issued_at INTEGER NOT NULL\n)",
		// severity events
		"CREATE TABLE IF NOT EXISTS severity_events (\n\t id INTEGER PRIMARY KEY AUTOINCREMENT,\n\t account_id TEXT NOT NULL,\n\t severity INTEGER NOT NULL,\n\t note TEXT,\n\t occurred_at TIMESTAMP NOT NULL,\n\t created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,\n\t FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE\n)",
		"CREATE INDEX IF NOT EXISTS idx_severity_events_account ON severity_events(account_id)",
		// timeline events
		"CREATE TABLE IF NOT EXISTS timeline_events (\n\t id INTEGER PRIMARY KEY AUTOINCREMENT,\n\t account_id TEXT NOT NULL,\n\t title TEXT NOT NULL,\n\t detail TEXT,\n\t occurred_at TIMESTAMP NOT NULL,\n\t created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,\n\t FOREIGN KEY(account_id) REFERENCES accounts(id) ON DELETE CASCADE\n)",
		"CREATE INDEX IF NOT EXISTS idx_timeline_events_account ON timeline_events(account_id)",
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
