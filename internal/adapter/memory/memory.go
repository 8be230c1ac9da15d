// Package memory implements the store ports in memory for development and
// testing.
package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"caltrack/internal/domain"
)

// DB implements every store port on in-memory maps.
type DB struct {
	mu       sync.Mutex
	dayLogs  map[string]domain.DayLog // key: userID + "/" + dayID
	profiles map[string]domain.ProfileDoc
	users    map[string]domain.User // key: email

	cachedLog     *domain.DayLog
	cachedProfile *domain.Profile
}

// New creates an empty in-memory database.
func New() *DB {
	return &DB{
		dayLogs:  make(map[string]domain.DayLog),
		profiles: make(map[string]domain.ProfileDoc),
		users:    make(map[string]domain.User),
	}
}

// Ensure interfaces are met.
var _ domain.LogStore = (*DB)(nil)
var _ domain.ProfileStore = (*DB)(nil)
var _ domain.CacheStore = (*DB)(nil)
var _ domain.UserStore = (*DB)(nil)

// --- LogStore ---

// GetDayLog returns a stored log document, or nil when absent.
func (db *DB) GetDayLog(ctx context.Context, userID, dayID string) (*domain.DayLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	l, ok := db.dayLogs[userID+"/"+dayID]
	if !ok {
		return nil, nil
	}
	out := l.Clone()
	return &out, nil
}

// MergeDayLog upserts a log document.
func (db *DB) MergeDayLog(ctx context.Context, userID string, l domain.DayLog) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.dayLogs[userID+"/"+l.DayID] = l.Clone()
	return nil
}

// --- ProfileStore ---

// GetProfile returns a stored profile document, or nil when absent.
func (db *DB) GetProfile(ctx context.Context, userID string) (*domain.ProfileDoc, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	doc, ok := db.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

// MergeProfile upserts a profile document, keeping the first CreatedAt.
func (db *DB) MergeProfile(ctx context.Context, userID string, doc domain.ProfileDoc) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if existing, ok := db.profiles[userID]; ok && !existing.CreatedAt.IsZero() {
		doc.CreatedAt = existing.CreatedAt
	}
	db.profiles[userID] = doc
	return nil
}

// --- CacheStore ---

// LoadDayLog returns the cached day log, or nil when none is stored.
func (db *DB) LoadDayLog() (*domain.DayLog, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.cachedLog == nil {
		return nil, nil
	}
	out := db.cachedLog.Clone()
	return &out, nil
}

// SaveDayLog stores the day log.
func (db *DB) SaveDayLog(l domain.DayLog) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	c := l.Clone()
	db.cachedLog = &c
	return nil
}

// LoadProfile returns the cached profile, or nil when none is stored.
func (db *DB) LoadProfile() (*domain.Profile, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if db.cachedProfile == nil {
		return nil, nil
	}
	p := *db.cachedProfile
	return &p, nil
}

// SaveProfile stores the profile.
func (db *DB) SaveProfile(p domain.Profile) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.cachedProfile = &p
	return nil
}

// --- UserStore ---

// GetUserByEmail returns an account, or nil when none matches.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

// CreateUser inserts an account.
func (db *DB) CreateUser(ctx context.Context, id, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.users[email]; ok {
		return nil, errors.New("user already exists")
	}
	u := domain.User{ID: id, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now().UTC()}
	db.users[email] = u
	return &u, nil
}
