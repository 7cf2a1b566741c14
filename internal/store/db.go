// Package store persists users, levels and records over database/sql and
// enforces the index contract declared in ent/schema.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour spoken to the driver.
type Dialect int

const (
	SQLite Dialect = iota
	Postgres
)

// ParseDialect maps a database/sql driver name onto a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "postgresql":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return 0, fmt.Errorf("unsupported database driver %q", driver)
}

func (d Dialect) driverName() string {
	if d == Postgres {
		return "postgres"
	}
	return "sqlite"
}

// DB is the storage layer.
type DB struct {
	sql     *sql.DB
	dialect Dialect
	log     *slog.Logger
}

// Open connects to the database named by driver and dsn. It does not migrate.
func Open(ctx context.Context, driver, dsn string, logger *slog.Logger) (*DB, error) {
	dialect, err := ParseDialect(driver)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	sqlDB, err := sql.Open(dialect.driverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dialect == SQLite {
		// Every connection to an in-memory database sees its own empty file,
		// and SQLite serialises writers anyway.
		sqlDB.SetMaxOpenConns(1)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{sql: sqlDB, dialect: dialect, log: logger}, nil
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.sql.Close()
}

// Dialect reports the SQL flavour in use.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// rebind rewrites ? placeholders into the $n form PostgreSQL expects.
func (db *DB) rebind(query string) string {
	if db.dialect != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (db *DB) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, db.rebind(query), args...)
}

// withTx runs fn inside a transaction, committing when it returns nil.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			db.log.Warn("rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// ResetResult counts the rows removed by Reset.
type ResetResult struct {
	Records int64
	Levels  int64
	Users   int64
}

// Reset deletes every record and level and every non-admin user. The
// admins that remain are left with no points.
func (db *DB) Reset(ctx context.Context) (ResetResult, error) {
	var res ResetResult
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		steps := []struct {
			query string
			args  []any
			count *int64
		}{
			{`DELETE FROM records`, nil, &res.Records},
			{`DELETE FROM levels`, nil, &res.Levels},
			{`DELETE FROM users WHERE is_admin = ?`, []any{false}, &res.Users},
			// The kept admins have no records left to earn points from.
			{`UPDATE users SET points = 0 WHERE is_admin = ?`, []any{true}, nil},
		}
		for _, s := range steps {
			r, err := db.exec(ctx, tx, s.query, s.args...)
			if err != nil {
				return fmt.Errorf("reset: %w", err)
			}
			if s.count == nil {
				continue
			}
			if *s.count, err = r.RowsAffected(); err != nil {
				return fmt.Errorf("reset: %w", err)
			}
		}
		return nil
	})
	return res, err
}
