package adapthttp

import (
	"fmt"
	"net/http"
	"strconv"

	"caltrack/internal/domain"
)

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, s.ctrl.View())
}

func (s *Server) handleLogFood(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			Name    string  `json:"name"`
			Kcal    float64 `json:"kcal"`
			Protein float64 `json:"protein"`
			Carb    float64 `json:"carb"`
			Fat     float64 `json:"fat"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		err := s.daylog.AddFood(r.Context(), domain.FoodEntry{
			Name:    body.Name,
			Kcal:    body.Kcal,
			Protein: body.Protein,
			Carb:    body.Carb,
			Fat:     body.Fat,
		})
		s.writeMutationResult(w, err)

	case http.MethodDelete:
		index, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("index query parameter must be an integer"))
			return
		}
		s.writeMutationResult(w, s.daylog.RemoveFood(r.Context(), index))

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleLogClear empties today's log. The confirmation dialog is the
// caller's responsibility; reaching this endpoint means the user confirmed.
func (s *Server) handleLogClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.writeMutationResult(w, s.daylog.Clear(r.Context()))
}
