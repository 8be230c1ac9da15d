package app

import (
	"context"
	"log"
	"sync"

	"caltrack/internal/domain"
)

// SessionController reacts to identity transitions, driving bootstrap and
// teardown of the profile and day-log services against the remote stores.
// At most one session is active at a time; a monotonic transition counter
// guards against an in-flight, now-obsolete transition finishing after a
// newer one has already completed.
type SessionController struct {
	identity domain.IdentitySource
	profile  *ProfileService
	daylog   *DayLogService

	mu      sync.Mutex
	seq     uint64
	session *domain.Session
}

// NewSessionController wires the controller to its collaborators. identity
// may be nil when the app runs without an identity provider.
func NewSessionController(identity domain.IdentitySource, profile *ProfileService, daylog *DayLogService) *SessionController {
	return &SessionController{identity: identity, profile: profile, daylog: daylog}
}

// Run consumes the identity event stream until ctx is cancelled. Without an
// identity source it applies a single anonymous transition and returns.
func (c *SessionController) Run(ctx context.Context) error {
	if c.identity == nil {
		_ = c.Apply(ctx, nil)
		return nil
	}
	events := c.identity.Subscribe(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case session, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.Apply(ctx, session); err != nil {
				log.Printf("session transition failed: %v", err)
			}
		}
	}
}

// Apply processes one session transition. On login it sequentially ensures
// the remote profile document exists, hydrates the profile and hydrates the
// day log. Any failure in that sequence falls back to anonymous/offline mode
// rather than leaving the system half-initialized. On logout no remote calls
// are made; both services continue against the cache.
func (c *SessionController) Apply(ctx context.Context, session *domain.Session) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	if session == nil {
		_ = c.profile.Hydrate(ctx, nil)
		_ = c.daylog.Hydrate(ctx, nil)
		c.commit(seq, nil)
		return nil
	}

	if err := c.profile.EnsureRemote(ctx, session); err != nil {
		return c.degrade(ctx, seq, err)
	}
	if c.superseded(seq) {
		return nil
	}
	if err := c.profile.Hydrate(ctx, session); err != nil {
		return c.degrade(ctx, seq, err)
	}
	if c.superseded(seq) {
		return nil
	}
	if err := c.daylog.Hydrate(ctx, session); err != nil {
		return c.degrade(ctx, seq, err)
	}
	c.commit(seq, session)
	return nil
}

// Session returns the currently committed session, or nil.
func (c *SessionController) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *SessionController) superseded(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq != c.seq
}

func (c *SessionController) commit(seq uint64, session *domain.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if seq == c.seq {
		c.session = session
	}
}

func (c *SessionController) degrade(ctx context.Context, seq uint64, err error) error {
	if c.superseded(seq) {
		return nil
	}
	_ = c.profile.Hydrate(ctx, nil)
	_ = c.daylog.Hydrate(ctx, nil)
	c.commit(seq, nil)
	return err
}
