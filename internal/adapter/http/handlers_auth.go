package adapthttp

import (
	"errors"
	"net/http"

	"caltrack/internal/adapter/identity"
	"caltrack/internal/domain"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, func(c credentials) (*domain.Session, error) {
		return s.identity.SignUp(r.Context(), c.Email, c.Password)
	})
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	s.handleAuth(w, r, func(c credentials) (*domain.Session, error) {
		return s.identity.SignIn(r.Context(), c.Email, c.Password)
	})
}

// handleAuth runs a credential exchange and applies the resulting session
// transition before responding, so the returned state is already hydrated.
func (s *Server) handleAuth(w http.ResponseWriter, r *http.Request, fn func(credentials) (*domain.Session, error)) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.identity == nil {
		http.NotFound(w, r)
		return
	}
	var body credentials
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	session, err := fn(body)
	if err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, identity.ErrAccountExists) || errors.Is(err, identity.ErrSignUpUnsupported) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	if err := s.ctrl.Apply(r.Context(), session); err != nil {
		// Bootstrap failed; the controller already fell back to offline mode.
		writeJSON(w, http.StatusOK, map[string]any{"state": s.ctrl.View(), "warning": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": s.ctrl.View()})
}

func (s *Server) handleSignOut(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if s.identity == nil {
		http.NotFound(w, r)
		return
	}
	if err := s.identity.SignOut(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := s.ctrl.Apply(r.Context(), nil); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": s.ctrl.View()})
}
