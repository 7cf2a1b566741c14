package store

import (
	"context"
	"fmt"
)

type migration struct {
	name string
	sql  string
}

// Column types are chosen to mean the same thing to PostgreSQL and SQLite.
var migrations = []migration{
	{
		name: "create users table",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				username TEXT NOT NULL,
				email TEXT NOT NULL,
				google_id TEXT,
				password_hash TEXT NOT NULL DEFAULT '',
				is_admin BOOLEAN NOT NULL DEFAULT FALSE,
				points DOUBLE PRECISION NOT NULL DEFAULT 0,
				country TEXT NOT NULL DEFAULT '',
				date_joined TIMESTAMP NOT NULL
			)
		`,
	},
	{
		name: "create levels table",
		sql: `
			CREATE TABLE IF NOT EXISTS levels (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				creator TEXT NOT NULL,
				verifier TEXT NOT NULL,
				level_id TEXT NOT NULL DEFAULT '',
				video_url TEXT NOT NULL DEFAULT '',
				thumbnail_url TEXT,
				description TEXT NOT NULL DEFAULT '',
				difficulty DOUBLE PRECISION NOT NULL,
				position INTEGER NOT NULL,
				is_legacy BOOLEAN NOT NULL DEFAULT FALSE,
				points DOUBLE PRECISION NOT NULL DEFAULT 0,
				min_percentage INTEGER NOT NULL DEFAULT 100,
				date_added TIMESTAMP NOT NULL
			)
		`,
	},
	{
		name: "create records table",
		sql: `
			CREATE TABLE IF NOT EXISTS records (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL,
				level_id TEXT NOT NULL,
				progress INTEGER NOT NULL,
				video_url TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'pending',
				points DOUBLE PRECISION NOT NULL DEFAULT 0,
				date_submitted TIMESTAMP NOT NULL
			)
		`,
	},
}

// Migrate applies pending table migrations and then ensures every index of
// the catalog exists.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.sql.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	for i, m := range migrations {
		version := i + 1
		var count int
		if err := db.queryRow(ctx, db.sql, `SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, version).Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", version, err)
		}
		if count > 0 {
			continue
		}

		db.log.Info("running migration", "version", version, "name", m.name)
		if _, err := db.sql.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %d (%s): %w", version, m.name, err)
		}
		if _, err := db.exec(ctx, db.sql, `INSERT INTO schema_migrations (version) VALUES (?)`, version); err != nil {
			return fmt.Errorf("record migration %d: %w", version, err)
		}
	}

	for _, idx := range Indexes() {
		if _, err := db.sql.ExecContext(ctx, idx.DDL()); err != nil {
			return fmt.Errorf("create index %s: %w", idx.Name(), err)
		}
	}
	return nil
}
