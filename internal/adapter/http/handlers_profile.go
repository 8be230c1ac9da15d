package adapthttp

import (
	"net/http"

	"caltrack/internal/domain"
)

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, s.profile.Profile())

	case http.MethodPut:
		var body struct {
			Gender         string  `json:"gender"`
			Age            float64 `json:"age"`
			HeightCm       float64 `json:"heightCm"`
			WeightKg       float64 `json:"weightKg"`
			ActivityFactor float64 `json:"activityFactor"`
		}
		if err := parseJSON(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		err := s.profile.SetMeasurements(
			domain.Gender(body.Gender), body.Age, body.HeightCm, body.WeightKg, body.ActivityFactor,
		)
		s.writeMutationResult(w, err)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleGoal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var body struct {
		Type  string  `json:"type"`
		Delta float64 `json:"delta"`
	}
	if err := parseJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeMutationResult(w, s.profile.SetGoal(domain.GoalType(body.Type), body.Delta))
}

func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.writeMutationResult(w, s.profile.Save(r.Context()))
}
