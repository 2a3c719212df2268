package handlers

import (
	"net/http"
	"strconv"

	"github.com/s/onlineLearning/internal/apperr"
)

// ==========================================
// Записи на курсы
// ==========================================

// GET /api/enrollments
func (h *Handler) ListEnrollments(w http.ResponseWriter, r *http.Request) {
	userID, err := CurrentUserID(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	list, err := h.Svc.ListEnrollments(r.Context(), userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// POST /api/enrollments {courseId}. userId из тела не читается.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	userID, err := CurrentUserID(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	var req struct {
		CourseID uint `json:"courseId"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}
	if req.CourseID == 0 {
		h.WriteError(w, r, apperr.Invalid("courseId обязателен"))
		return
	}
	v, err := h.Svc.Enroll(r.Context(), userID, req.CourseID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, v)
}

// GET /api/enrollments/check?courseId=
func (h *Handler) CheckEnrollment(w http.ResponseWriter, r *http.Request) {
	userID, err := CurrentUserID(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	courseID, err := strconv.ParseUint(r.URL.Query().Get("courseId"), 10, 64)
	if err != nil || courseID == 0 {
		h.WriteError(w, r, apperr.Invalid("courseId обязателен"))
		return
	}
	v, ok, err := h.Svc.CheckEnrollment(r.Context(), userID, uint(courseID))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if !ok {
		WriteJSON(w, http.StatusOK, map[string]any{"enrolled": false})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"enrolled": true, "enrollment": v})
}

// DELETE /api/enrollments/{enrollmentId}
func (h *Handler) Unenroll(w http.ResponseWriter, r *http.Request) {
	userID, err := CurrentUserID(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	enrollmentID, err := PathID(r, "enrollmentId")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	if err := h.Svc.Unenroll(r.Context(), enrollmentID, userID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Вы отписались от курса"})
}

// ==========================================
// Прохождение уроков
// ==========================================

// POST /api/enrollments/{enrollmentId}/lessons/{lessonId}/complete
func (h *Handler) CompleteLesson(w http.ResponseWriter, r *http.Request) {
	userID, enrollmentID, lessonID, err := enrollmentLesson(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	res, err := h.Svc.CompleteLesson(r.Context(), enrollmentID, lessonID, userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

// GET /api/enrollments/{enrollmentId}/lessons/{lessonId}/check
func (h *Handler) CheckLesson(w http.ResponseWriter, r *http.Request) {
	userID, enrollmentID, lessonID, err := enrollmentLesson(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	done, err := h.Svc.CheckCompletion(r.Context(), enrollmentID, lessonID, userID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"completed": done})
}

func enrollmentLesson(r *http.Request) (userID, enrollmentID, lessonID uint, err error) {
	if userID, err = CurrentUserID(r); err != nil {
		return
	}
	if enrollmentID, err = PathID(r, "enrollmentId"); err != nil {
		return
	}
	lessonID, err = PathID(r, "lessonId")
	return
}
