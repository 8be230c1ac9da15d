// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Session identifies the authenticated user. A nil *Session means the app is
// running anonymously against the local cache only.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// IdentitySource is the port for the external identity provider. Subscribe
// delivers the already-restored session (or nil) once immediately, then a
// value on every authentication-state change. Sign-in and sign-up broadcast
// the resulting session to subscribers in addition to returning it.
type IdentitySource interface {
	Subscribe(ctx context.Context) <-chan *Session
	SignUp(ctx context.Context, email, password string) (*Session, error)
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SignOut(ctx context.Context) error
}

// User is a locally managed account, used only by the local identity source.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore defines the port for local account persistence.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	CreateUser(ctx context.Context, id, email, passwordHash string) (*User, error)
}
