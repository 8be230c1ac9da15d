// Package app holds the application services and business logic.
package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"caltrack/internal/domain"
)

// DayLogState tracks the reconciler's lifecycle.
type DayLogState string

// Reconciler states. Stale is entered when the wall-clock date advances past
// the log's dayId while the app stays open; mutations then fail until the
// caller re-hydrates for the new day.
const (
	DayLogUninitialized DayLogState = "uninitialized"
	DayLogHydrating     DayLogState = "hydrating"
	DayLogReady         DayLogState = "ready"
	DayLogStale         DayLogState = "stale"
)

// DayLogService owns the authoritative in-memory log for the current day and
// mediates between the local cache, the remote log store and user mutations.
// All operations are serialized on an internal mutex so a slow remote persist
// cannot interleave with a second mutation and break the totals invariant.
type DayLogService struct {
	cache  domain.CacheStore
	remote domain.LogStore
	now    func() time.Time

	mu      sync.Mutex
	state   DayLogState
	dlog    domain.DayLog
	session *domain.Session
	synced  bool
	gen     uint64
}

// NewDayLogService creates a DayLogService backed by the given stores.
func NewDayLogService(cache domain.CacheStore, remote domain.LogStore) *DayLogService {
	return &DayLogService{
		cache:  cache,
		remote: remote,
		now:    time.Now,
		state:  DayLogUninitialized,
	}
}

// Hydrate loads the authoritative state for today. With a session it reads
// the remote document for (userID, today): an existing document wins over
// any cached copy, an absent one is created empty with a write-through.
// Anonymously it keeps today's cached log and discards a stale one. A remote
// failure leaves existing state intact and returns ErrRemoteUnavailable; the
// service still ends up Ready on whatever the cache held. A hydrate that is
// superseded by a newer one never overwrites the newer result.
func (s *DayLogService) Hydrate(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.state = DayLogHydrating
	s.session = session
	today := domain.DayID(s.now())

	if session == nil {
		s.loadCacheLocked(today)
		s.synced = false
		s.state = DayLogReady
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	remote, err := s.remote.GetDayLog(ctx, session.UserID, today)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		// A newer hydrate already completed; let the latest call win.
		return nil
	}
	if err != nil {
		if s.dlog.DayID != today {
			s.loadCacheLocked(today)
		}
		s.synced = false
		s.state = DayLogReady
		return fmt.Errorf("hydrate day log: %w: %v", ErrRemoteUnavailable, err)
	}

	if remote != nil {
		s.dlog = remote.Clone()
		s.dlog.DayID = today
		s.dlog.Totals = domain.SumTotals(s.dlog.Foods)
	} else {
		s.dlog = domain.NewDayLog(today)
		if werr := s.remote.MergeDayLog(ctx, session.UserID, s.dlog); werr != nil {
			s.saveCacheLocked()
			s.synced = false
			s.state = DayLogReady
			return fmt.Errorf("create day log: %w: %v", ErrRemoteUnavailable, werr)
		}
	}
	s.saveCacheLocked()
	s.synced = true
	s.state = DayLogReady
	return nil
}

// AddFood validates and prepends a food entry, then persists. After a
// successful call both the cache and, when authenticated, the remote store
// reflect the new state. ErrRemoteUnavailable means the entry was applied
// and cached but not synced.
func (s *DayLogService) AddFood(ctx context.Context, entry domain.FoodEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrentDayLocked(); err != nil {
		return err
	}
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if math.IsNaN(entry.Kcal) || math.IsInf(entry.Kcal, 0) {
		return fmt.Errorf("%w: kcal must be a finite number", ErrValidation)
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = s.now()
	}
	s.dlog.Foods = append([]domain.FoodEntry{entry}, s.dlog.Foods...)
	s.dlog.Totals = domain.SumTotals(s.dlog.Foods)
	return s.persistLocked(ctx)
}

// RemoveFood removes the entry at index, then persists.
func (s *DayLogService) RemoveFood(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrentDayLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(s.dlog.Foods) {
		return fmt.Errorf("%w: index %d, %d entries", ErrIndexOutOfRange, index, len(s.dlog.Foods))
	}
	s.dlog.Foods = append(s.dlog.Foods[:index], s.dlog.Foods[index+1:]...)
	s.dlog.Totals = domain.SumTotals(s.dlog.Foods)
	return s.persistLocked(ctx)
}

// Clear empties today's log, then persists. Destructive and irreversible;
// the caller is expected to have confirmed with the user.
func (s *DayLogService) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkCurrentDayLocked(); err != nil {
		return err
	}
	s.dlog.Foods = []domain.FoodEntry{}
	s.dlog.Totals = domain.SumTotals(s.dlog.Foods)
	return s.persistLocked(ctx)
}

// Today returns a copy of the current day log. Reading also runs the
// rollover check, so a date change shows up as the Stale state.
func (s *DayLogService) Today() (domain.DayLog, DayLogState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == DayLogReady && s.dlog.DayID != domain.DayID(s.now()) {
		s.state = DayLogStale
	}
	return s.dlog.Clone(), s.state, s.synced
}

// State reports the reconciler state without running the rollover check.
func (s *DayLogService) State() DayLogState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *DayLogService) checkCurrentDayLocked() error {
	switch s.state {
	case DayLogReady:
	case DayLogStale:
		return fmt.Errorf("%w: re-hydrate for the current day", ErrStaleDay)
	default:
		return fmt.Errorf("%w: day log not hydrated", ErrStaleDay)
	}
	if s.dlog.DayID != domain.DayID(s.now()) {
		// Never log food against yesterday's id.
		s.state = DayLogStale
		return fmt.Errorf("%w: re-hydrate for the current day", ErrStaleDay)
	}
	return nil
}

// persistLocked writes through: cache always (best effort), remote only when
// a session is active. A remote failure does not roll back the applied
// mutation; the caller sees ErrRemoteUnavailable and local state stays
// authoritative.
func (s *DayLogService) persistLocked(ctx context.Context) error {
	s.saveCacheLocked()
	if s.session == nil {
		s.synced = false
		return nil
	}
	if err := s.remote.MergeDayLog(ctx, s.session.UserID, s.dlog); err != nil {
		s.synced = false
		return fmt.Errorf("sync day log: %w: %v", ErrRemoteUnavailable, err)
	}
	s.synced = true
	return nil
}

func (s *DayLogService) saveCacheLocked() {
	if err := s.cache.SaveDayLog(s.dlog); err != nil {
		log.Printf("day log cache write failed: %v", err)
	}
}

func (s *DayLogService) loadCacheLocked(today string) {
	cached, err := s.cache.LoadDayLog()
	if err != nil {
		log.Printf("day log cache read failed: %v", err)
	}
	if cached != nil && cached.DayID == today {
		s.dlog = cached.Clone()
	} else {
		s.dlog = domain.NewDayLog(today)
	}
	s.dlog.Totals = domain.SumTotals(s.dlog.Foods)
}
