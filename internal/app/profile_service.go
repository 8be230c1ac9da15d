package app

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"caltrack/internal/domain"
)

// ProfileService owns the live profile and goal, mediating between the local
// cache and the remote profile document. It is the simpler sibling of
// DayLogService: same cache-vs-remote reconciliation, no day rollover.
type ProfileService struct {
	cache  domain.CacheStore
	remote domain.ProfileStore
	now    func() time.Time

	mu      sync.Mutex
	profile domain.Profile
	session *domain.Session
	gen     uint64
}

// NewProfileService creates a ProfileService backed by the given stores. The
// in-memory profile starts from the cached copy when one exists.
func NewProfileService(cache domain.CacheStore, remote domain.ProfileStore) *ProfileService {
	s := &ProfileService{
		cache:   cache,
		remote:  remote,
		now:     time.Now,
		profile: domain.DefaultProfile(),
	}
	if cached, err := cache.LoadProfile(); err != nil {
		log.Printf("profile cache read failed: %v", err)
	} else if cached != nil {
		s.profile = *cached
	}
	return s
}

// EnsureRemote creates the remote profile document for the session's user if
// it does not exist, seeded from the in-memory profile. An existing document
// is never overwritten.
func (s *ProfileService) EnsureRemote(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return ErrAuthRequired
	}
	doc, err := s.remote.GetProfile(ctx, session.UserID)
	if err != nil {
		return fmt.Errorf("ensure profile: %w: %v", ErrRemoteUnavailable, err)
	}
	if doc != nil {
		return nil
	}
	s.mu.Lock()
	seed := domain.ProfileDoc{
		Email:     session.Email,
		Profile:   s.profile,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}
	s.mu.Unlock()
	if err := s.remote.MergeProfile(ctx, session.UserID, seed); err != nil {
		return fmt.Errorf("ensure profile: %w: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

// Hydrate loads the authoritative profile. With a session the remote
// document, when present, overwrites the local draft and is mirrored to the
// cache; an absent document leaves the in-memory profile as is. Anonymously
// the cached copy is the source of truth. Remote failures never corrupt
// existing state. A superseded hydrate never overwrites a newer result.
func (s *ProfileService) Hydrate(ctx context.Context, session *domain.Session) error {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.session = session

	if session == nil {
		cached, err := s.cache.LoadProfile()
		if err != nil {
			log.Printf("profile cache read failed: %v", err)
		}
		if cached != nil {
			s.profile = *cached
		}
		s.recomputeLocked()
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	doc, err := s.remote.GetProfile(ctx, session.UserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return nil
	}
	if err != nil {
		return fmt.Errorf("hydrate profile: %w: %v", ErrRemoteUnavailable, err)
	}
	if doc != nil {
		s.profile = doc.Profile
		s.recomputeLocked()
		s.saveCacheLocked()
	}
	return nil
}

// SetMeasurements updates the body measurements and recomputes the derived
// values, writing through to the cache. The remote document is only touched
// by an explicit Save.
func (s *ProfileService) SetMeasurements(gender domain.Gender, age, heightCm, weightKg, activity float64) error {
	if gender != domain.GenderMale && gender != domain.GenderFemale {
		return fmt.Errorf("%w: gender must be male or female", ErrValidation)
	}
	if age <= 0 || heightCm <= 0 || weightKg <= 0 {
		return fmt.Errorf("%w: age, height and weight must be positive", ErrValidation)
	}
	if activity <= 0 {
		return fmt.Errorf("%w: activity factor must be positive", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Gender = gender
	s.profile.Age = &age
	s.profile.HeightCm = &heightCm
	s.profile.WeightKg = &weightKg
	s.profile.ActivityFactor = activity
	s.recomputeLocked()
	s.saveCacheLocked()
	return nil
}

// SetGoal updates the goal and re-derives the target, writing through to the
// cache.
func (s *ProfileService) SetGoal(goalType domain.GoalType, delta float64) error {
	switch goalType {
	case domain.GoalMaintain, domain.GoalCut, domain.GoalBulk:
	default:
		return fmt.Errorf("%w: unknown goal type %q", ErrValidation, goalType)
	}
	if delta < 0 {
		return fmt.Errorf("%w: delta must be non-negative", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile.Goal.Type = goalType
	s.profile.Goal.Delta = delta
	s.recomputeLocked()
	s.saveCacheLocked()
	return nil
}

// Save pushes the current profile to the remote document and mirrors it to
// the cache. Without a session the cache mirror still happens, but the call
// fails with ErrAuthRequired.
func (s *ProfileService) Save(ctx context.Context) error {
	s.mu.Lock()
	s.saveCacheLocked()
	session := s.session
	doc := domain.ProfileDoc{
		Profile:   s.profile,
		UpdatedAt: s.now().UTC(),
	}
	s.mu.Unlock()

	if session == nil {
		return ErrAuthRequired
	}
	doc.Email = session.Email
	if err := s.remote.MergeProfile(ctx, session.UserID, doc); err != nil {
		return fmt.Errorf("save profile: %w: %v", ErrRemoteUnavailable, err)
	}
	return nil
}

// Profile returns a copy of the current profile.
func (s *ProfileService) Profile() domain.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// targetKcal is re-derived whenever tdee, goal type or delta changes; it is
// never edited directly.
func (s *ProfileService) recomputeLocked() {
	d := domain.ComputeDerived(s.profile)
	s.profile.BMR = d.BMR
	s.profile.TDEE = d.TDEE
	s.profile.Goal.TargetKcal = d.TargetKcal
}

func (s *ProfileService) saveCacheLocked() {
	if err := s.cache.SaveProfile(s.profile); err != nil {
		log.Printf("profile cache write failed: %v", err)
	}
}
