package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// GET /api/courses?category=
func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ListCourses(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GET /api/courses/{id}
func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	id, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	c, err := h.Svc.GetCourse(r.Context(), id)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}

// GET /api/courses/{id}/lessons/{lessonId}
func (h *Handler) GetLesson(w http.ResponseWriter, r *http.Request) {
	courseID, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	lessonID, err := PathID(r, "lessonId")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	l, err := h.Svc.GetLesson(r.Context(), courseID, lessonID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, l)
}

// GET /api/webinars
func (h *Handler) ListWebinars(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ListWebinars(r.Context())
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// GET /api/certificates/{certificateId} — публичная проверка сертификата
func (h *Handler) GetCertificate(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.GetCertificate(r.Context(), mux.Vars(r)["certificateId"])
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, c)
}
