package admin

import (
	"net/http"

	"github.com/s/onlineLearning/internal/handlers"
	"github.com/s/onlineLearning/internal/learning"
)

// ==========================================
// Курсы: POST /api/courses, PUT/DELETE /api/courses/{id}
// ==========================================

func (s *Service) CreateCourse(w http.ResponseWriter, r *http.Request) {
	var in learning.CourseInput
	if err := handlers.DecodeJSON(r, &in); err != nil {
		s.WriteError(w, r, err)
		return
	}
	c, err := s.Svc.CreateCourse(r.Context(), in)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, c)
}

func (s *Service) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	var in learning.CourseInput
	if err := handlers.DecodeJSON(r, &in); err != nil {
		s.WriteError(w, r, err)
		return
	}
	c, err := s.Svc.UpdateCourse(r.Context(), id, in)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, c)
}

func (s *Service) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, err := handlers.PathID(r, "id")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	if err := s.Svc.DeleteCourse(r.Context(), id); err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Курс удален"})
}

// ==========================================
// Уроки
// ==========================================

// POST /api/courses/{id}/lessons — один урок или {"lessons": [...]}
func (s *Service) AddLessons(w http.ResponseWriter, r *http.Request) {
	courseID, err := handlers.PathID(r, "id")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	var req struct {
		learning.LessonInput
		Lessons []learning.LessonInput `json:"lessons"`
	}
	if err := handlers.DecodeJSON(r, &req); err != nil {
		s.WriteError(w, r, err)
		return
	}
	in := req.Lessons
	if len(in) == 0 {
		in = []learning.LessonInput{req.LessonInput}
	}
	lessons, err := s.Svc.AddLessons(r.Context(), courseID, in)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, lessons)
}

// PUT /api/courses/{id}/lessons/{lessonId}
func (s *Service) UpdateLesson(w http.ResponseWriter, r *http.Request) {
	courseID, err := handlers.PathID(r, "id")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	lessonID, err := handlers.PathID(r, "lessonId")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	var in learning.LessonInput
	if err := handlers.DecodeJSON(r, &in); err != nil {
		s.WriteError(w, r, err)
		return
	}
	l, err := s.Svc.UpdateLesson(r.Context(), courseID, lessonID, in)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, l)
}

// DELETE /api/courses/{id}/lessons/{lessonId}
func (s *Service) DeleteLesson(w http.ResponseWriter, r *http.Request) {
	courseID, err := handlers.PathID(r, "id")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	lessonID, err := handlers.PathID(r, "lessonId")
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	if err := s.Svc.DeleteLesson(r.Context(), courseID, lessonID); err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, map[string]string{"message": "Урок удален"})
}

// POST /api/webinars
func (s *Service) CreateWebinar(w http.ResponseWriter, r *http.Request) {
	var in learning.WebinarInput
	if err := handlers.DecodeJSON(r, &in); err != nil {
		s.WriteError(w, r, err)
		return
	}
	wb, err := s.Svc.CreateWebinar(r.Context(), in)
	if err != nil {
		s.WriteError(w, r, err)
		return
	}
	handlers.WriteJSON(w, http.StatusCreated, wb)
}
