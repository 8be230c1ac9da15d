package identity

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"caltrack/internal/domain"
)

// LocalSource is a self-contained identity provider storing accounts in the
// on-device user store. Sessions do not survive restarts; subscribers get a
// nil session at startup.
type LocalSource struct {
	users domain.UserStore
	bus   broadcaster
}

var _ domain.IdentitySource = (*LocalSource)(nil)

// NewLocal creates a LocalSource backed by the given user store.
func NewLocal(users domain.UserStore) *LocalSource {
	return &LocalSource{users: users}
}

// Subscribe returns the session-change stream.
func (s *LocalSource) Subscribe(ctx context.Context) <-chan *domain.Session {
	return s.bus.subscribe()
}

// SignUp registers a new account and signs it in.
func (s *LocalSource) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		return nil, ErrInvalidCredentials
	}
	existing, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user, err := s.users.CreateUser(ctx, uuid.NewString(), email, string(hash))
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", err)
	}
	session := &domain.Session{UserID: user.ID, Email: user.Email}
	s.bus.set(session)
	return session, nil
}

// SignIn authenticates an existing account.
func (s *LocalSource) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	session := &domain.Session{UserID: user.ID, Email: user.Email}
	s.bus.set(session)
	return session, nil
}

// SignOut clears the active session.
func (s *LocalSource) SignOut(ctx context.Context) error {
	s.bus.set(nil)
	return nil
}
