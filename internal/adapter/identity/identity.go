// Package identity provides the session sources the app can run against: a
// local single-user provider backed by the on-device account table, and an
// OIDC provider for deployments with a managed issuer.
package identity

import (
	"errors"
	"sync"

	"caltrack/internal/domain"
)

var (
	// ErrInvalidCredentials indicates that the provided email or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountExists indicates a sign-up for an email that is already registered.
	ErrAccountExists = errors.New("account already exists")
	// ErrSignUpUnsupported indicates the provider does not manage account creation.
	ErrSignUpUnsupported = errors.New("sign-up is managed by the identity provider")
)

// broadcaster fans session changes out to subscribers. Every new subscriber
// immediately receives the current session, which covers the restored-session
// delivery at startup.
type broadcaster struct {
	mu      sync.Mutex
	current *domain.Session
	subs    []chan *domain.Session
}

func (b *broadcaster) subscribe() <-chan *domain.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *domain.Session, 8)
	ch <- b.current
	b.subs = append(b.subs, ch)
	return ch
}

func (b *broadcaster) set(s *domain.Session) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.current = s
	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
			// Subscriber is not draining; drop rather than block sign-in.
		}
	}
}

func (b *broadcaster) session() *domain.Session {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}
