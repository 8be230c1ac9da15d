// Package postgres implements the remote document store ports against a
// self-hosted PostgreSQL database, for deployments that do not use a managed
// document-store service.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"caltrack/internal/domain"
)

// DB wraps a *sql.DB and implements the remote store ports.
type DB struct {
	sql *sql.DB
}

var _ domain.LogStore = (*DB)(nil)
var _ domain.ProfileStore = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profile_docs (
			user_id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			profile JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS day_logs (
			user_id TEXT NOT NULL,
			day_id TEXT NOT NULL,
			foods JSONB NOT NULL,
			totals JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY(user_id, day_id)
		);`,
		"CREATE INDEX IF NOT EXISTS idx_day_logs_day_id ON day_logs(day_id);",
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
