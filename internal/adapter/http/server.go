// Package adapthttp is the driving HTTP adapter: it exposes the view-model
// and the action endpoints the presentation layer invokes.
package adapthttp

import (
	"math/rand"
	"net/http"

	"caltrack/internal/app"
	"caltrack/internal/domain"
)

// Server routes requests to the application services.
type Server struct {
	ctrl     *app.SessionController
	daylog   *app.DayLogService
	profile  *app.ProfileService
	identity domain.IdentitySource
	rng      *rand.Rand
}

// New creates a Server wired to the given application services. identity may
// be nil when no identity provider is configured; auth endpoints then return
// 404.
func New(ctrl *app.SessionController, dl *app.DayLogService, ps *app.ProfileService, identity domain.IdentitySource, rng *rand.Rand) *Server {
	return &Server{ctrl: ctrl, daylog: dl, profile: ps, identity: identity, rng: rng}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	api.HandleFunc("/state", s.handleState)

	api.HandleFunc("/log/food", s.handleLogFood)
	api.HandleFunc("/log/clear", s.handleLogClear)

	api.HandleFunc("/profile", s.handleProfile)
	api.HandleFunc("/profile/save", s.handleProfileSave)
	api.HandleFunc("/goal", s.handleGoal)

	api.HandleFunc("/catalog", s.handleCatalog)
	api.HandleFunc("/catalog/random", s.handleCatalogRandom)

	api.HandleFunc("/auth/signup", s.handleSignUp)
	api.HandleFunc("/auth/login", s.handleSignIn)
	api.HandleFunc("/auth/logout", s.handleSignOut)

	root := http.NewServeMux()
	root.Handle("/api/", http.StripPrefix("/api", api))

	return s.loggingMiddleware(withNoCache(root))
}
