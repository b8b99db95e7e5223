package handlers

import (
	"net/http"

	"tubelens-backend/internal/services"
)

type IdeaHandler struct {
	ideas *services.IdeasService
}

func NewIdeaHandler(ideas *services.IdeasService) *IdeaHandler {
	return &IdeaHandler{ideas: ideas}
}

func (h *IdeaHandler) List(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.ideas.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ideas": ideas})
}

// Refresh rebuilds the idea set on demand, outside the daily schedule.
func (h *IdeaHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ideas, err := h.ideas.Refresh(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ideas": ideas})
}
