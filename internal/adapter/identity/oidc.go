package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"caltrack/internal/domain"
)

// OIDCSource authenticates against an OIDC issuer using the resource-owner
// password grant and verifies the returned ID tokens. Account creation is
// the issuer's concern, so SignUp is unsupported.
type OIDCSource struct {
	verifier *oidc.IDTokenVerifier
	cfg      oauth2.Config
	bus      broadcaster
}

var _ domain.IdentitySource = (*OIDCSource)(nil)

// NewOIDC discovers the issuer and prepares the token flow.
func NewOIDC(ctx context.Context, issuer, clientID, clientSecret string) (*OIDCSource, error) {
	provider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("discover issuer: %w", err)
	}
	return &OIDCSource{
		verifier: provider.Verifier(&oidc.Config{ClientID: clientID}),
		cfg: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email"},
		},
	}, nil
}

// Subscribe returns the session-change stream.
func (s *OIDCSource) Subscribe(ctx context.Context) <-chan *domain.Session {
	return s.bus.subscribe()
}

// SignUp is not supported; accounts are created with the issuer.
func (s *OIDCSource) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	return nil, ErrSignUpUnsupported
}

// SignIn exchanges credentials for tokens and verifies the ID token.
func (s *OIDCSource) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	tok, err := s.cfg.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	rawID, ok := tok.Extra("id_token").(string)
	if !ok {
		return nil, fmt.Errorf("token response carried no id_token")
	}
	idToken, err := s.verifier.Verify(ctx, rawID)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	session := &domain.Session{UserID: idToken.Subject, Email: claims.Email}
	s.bus.set(session)
	return session, nil
}

// SignOut clears the active session.
func (s *OIDCSource) SignOut(ctx context.Context) error {
	s.bus.set(nil)
	return nil
}
