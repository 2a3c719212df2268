package personal

import (
	"net/http"

	"github.com/s/onlineLearning/internal/handlers"
)

// PUT /api/me/interests {interests: [...]}
func (s *Service) UpdateInterests(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.CurrentUserID(r)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	var req struct {
		Interests []string `json:"interests"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		s.WriteError(w, r, err)
		return
	}
	u, err := s.Svc.UpdateInterests(r.Context(), userID, req.Interests)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, u)
}
