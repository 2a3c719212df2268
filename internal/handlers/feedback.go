package handlers

import (
	"net/http"
)

// POST /api/courses/{id}/reviews
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	userID, err := CurrentUserID(r)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	courseID, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}

	var req struct {
		Rating int    `json:"rating"`
		Text   string `json:"text"`
	}
	if err := DecodeJSON(r, &req); err != nil {
		h.WriteError(w, r, err)
		return
	}

	review, created, err := h.Svc.SubmitReview(r.Context(), courseID, userID, req.Rating, req.Text)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, review)
}

// GET /api/courses/{id}/reviews
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	courseID, err := PathID(r, "id")
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	list, err := h.Svc.ListReviews(r.Context(), courseID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}
