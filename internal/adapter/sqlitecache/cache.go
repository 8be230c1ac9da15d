// Package sqlitecache implements the on-device cache on a single sqlite
// file. It holds the two serialized slots (profile and today's log) plus the
// accounts table used by the local identity source.
package sqlitecache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"caltrack/internal/domain"
)

// Cache is a durable key-value store for the client device.
type Cache struct {
	db *sql.DB
}

// Interface checks.
var _ domain.CacheStore = (*Cache)(nil)
var _ domain.UserStore = (*Cache)(nil)

const (
	slotProfile = "profile"
	slotDayLog  = "day_log"
)

// Open opens (creating if needed) the cache file at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping cache: %w", err)
	}
	c := &Cache{db: db}
	if err := c.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate cache: %w", err)
		}
	}
	return nil
}

func (c *Cache) loadSlot(key string, dst any) (bool, error) {
	var raw string
	err := c.db.QueryRow("SELECT value FROM slots WHERE key = ?;", key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) saveSlot(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = c.db.Exec(
		`INSERT INTO slots(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at;`,
		key, string(raw), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// LoadDayLog returns the cached day log, or nil when none is stored.
func (c *Cache) LoadDayLog() (*domain.DayLog, error) {
	var l domain.DayLog
	ok, err := c.loadSlot(slotDayLog, &l)
	if err != nil || !ok {
		return nil, err
	}
	return &l, nil
}

// SaveDayLog stores the day log, replacing any previous one.
func (c *Cache) SaveDayLog(l domain.DayLog) error {
	return c.saveSlot(slotDayLog, l)
}

// LoadProfile returns the cached profile, or nil when none is stored.
func (c *Cache) LoadProfile() (*domain.Profile, error) {
	var p domain.Profile
	ok, err := c.loadSlot(slotProfile, &p)
	if err != nil || !ok {
		return nil, err
	}
	return &p, nil
}

// SaveProfile stores the profile, replacing any previous one.
func (c *Cache) SaveProfile(p domain.Profile) error {
	return c.saveSlot(slotProfile, p)
}

// GetUserByEmail returns a local account, or nil when none matches.
func (c *Cache) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := c.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = ?;", email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// CreateUser inserts a local account.
func (c *Cache) CreateUser(ctx context.Context, id, email, passwordHash string) (*domain.User, error) {
	now := time.Now().UTC()
	_, err := c.db.ExecContext(ctx,
		"INSERT INTO users(id, email, password_hash, created_at) VALUES(?, ?, ?, ?);",
		id, email, passwordHash, now,
	)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &domain.User{ID: id, Email: email, PasswordHash: passwordHash, CreatedAt: now}, nil
}
