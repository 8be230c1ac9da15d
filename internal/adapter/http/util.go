package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"caltrack/internal/app"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// writeMutationResult maps service errors onto responses. A remote-store
// failure is not a failed mutation: the edit is applied and cached, only its
// sync status is degraded, so the client gets 200 with synced=false.
func (s *Server) writeMutationResult(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"state": s.ctrl.View()})
	case errors.Is(err, app.ErrRemoteUnavailable):
		writeJSON(w, http.StatusOK, map[string]any{"state": s.ctrl.View(), "warning": err.Error()})
	case errors.Is(err, app.ErrValidation), errors.Is(err, app.ErrIndexOutOfRange):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, app.ErrStaleDay):
		writeError(w, http.StatusConflict, err)
	case errors.Is(err, app.ErrAuthRequired):
		writeError(w, http.StatusUnauthorized, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

func withNoCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
