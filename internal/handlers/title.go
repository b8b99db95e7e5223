package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tubelens-backend/internal/middleware"
	"tubelens-backend/internal/services"
)

type TitleHandler struct {
	titles    *services.TitleService
	credits   *services.CreditLedger
	titleCost int
}

func NewTitleHandler(titles *services.TitleService, credits *services.CreditLedger, titleCost int) *TitleHandler {
	return &TitleHandler{titles: titles, credits: credits, titleCost: titleCost}
}

type generateRequest struct {
	Prompt string `json:"prompt"`
}

func (h *TitleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Prompt is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	result, err := h.titles.Generate(r.Context(), prompt, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	if _, err := h.credits.Charge(r.Context(), userID, h.titleCost); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *TitleHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	titles, err := h.titles.Favorites(r.Context(), *userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"favorites": titles})
}

func (h *TitleHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	titleID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid title ID", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	title, err := h.titles.ToggleFavorite(r.Context(), titleID, *userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, title)
}
