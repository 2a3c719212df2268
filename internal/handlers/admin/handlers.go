package admin

import (
	"fmt"
	"net/http"
	"time"

	"github.com/s/onlineLearning/internal/export"
	"github.com/s/onlineLearning/internal/handlers"
	"github.com/s/onlineLearning/internal/models"
)

// Service — админские и учительские API поверх основного Handler
type Service struct {
	*handlers.Handler
}

// GET /api/admin/users
func (s *Service) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.Svc.ListUsers(r.Context())
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, users)
}

// PUT /api/admin/users/{id}/role {role}
func (s *Service) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	var req struct {
		Role models.Role `json:"role"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		s.WriteError(w, r, err)
		return
	}
	u, err := s.Svc.ChangeRole(r.Context(), id, req.Role)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, u)
}

// GET /api/admin/students-results[?format=xlsx]
func (s *Service) StudentsResults(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Svc.StudentsResults(r.Context())
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") != "xlsx" {
		handlers.WriteJSON(w, http.StatusOK, rows)
		return
	}

	data, err := export.StudentsResultsXLSX(rows)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	name := fmt.Sprintf("students-results-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
