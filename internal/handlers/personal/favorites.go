package personal

import (
	"net/http"

	"github.com/s/onlineLearning/internal/apperr"
	"github.com/s/onlineLearning/internal/handlers"
)

// Service — личный кабинет: избранное и анкета интересов
type Service struct {
	*handlers.Handler
}

// GET /api/favorites/courses
func (s *Service) ListFavoriteCourses(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.CurrentUserID(r)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	ids, err := s.Svc.ListFavoriteCourseIDs(r.Context(), userID)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, ids)
}

// POST /api/favorites/courses {courseId}
func (s *Service) ToggleFavoriteCourse(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.CurrentUserID(r)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	var req struct {
		CourseID uint `json:"courseId"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		s.WriteError(w, r, err)
		return
	}
	if req.CourseID == 0 {
		s.WriteError(w, r, apperr.Invalid("courseId обязателен"))
		return
	}
	on, err := s.Svc.ToggleFavoriteCourse(r.Context(), userID, req.CourseID)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]bool{"isFavorite": on})
}

// GET /api/favorites/webinars
func (s *Service) ListFavoriteWebinars(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.CurrentUserID(r)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	ids, err := s.Svc.ListFavoriteWebinarIDs(r.Context(), userID)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, ids)
}

// POST /api/favorites/webinars {webinarId}
func (s *Service) ToggleFavoriteWebinar(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.CurrentUserID(r)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	var req struct {
		WebinarID uint `json:"webinarId"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		s.WriteError(w, r, err)
		return
	}
	if req.WebinarID == 0 {
		s.WriteError(w, r, apperr.Invalid("webinarId обязателен"))
		return
	}
	on, err := s.Svc.ToggleFavoriteWebinar(r.Context(), userID, req.WebinarID)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]bool{"isFavorite": on})
}
