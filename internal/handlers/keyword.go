package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"tubelens-backend/internal/middleware"
	"tubelens-backend/internal/services"
)

type KeywordHandler struct {
	analysis     *services.KeywordAnalysisService
	credits      *services.CreditLedger
	pool         *services.KeyPool
	chain        *services.Chain
	analysisCost int
}

func NewKeywordHandler(analysis *services.KeywordAnalysisService, credits *services.CreditLedger, pool *services.KeyPool, chain *services.Chain, analysisCost int) *KeywordHandler {
	return &KeywordHandler{analysis: analysis, credits: credits, pool: pool, chain: chain, analysisCost: analysisCost}
}

type analyzeRequest struct {
	Keyword string `json:"keyword"`
}

func (h *KeywordHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	keyword := strings.ToLower(strings.TrimSpace(req.Keyword))
	if keyword == "" {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Keyword is required", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	result, err := h.analysis.Analyze(r.Context(), keyword, userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	// Repeat searches within the freshness window are charged too.
	if _, err := h.credits.Charge(r.Context(), userID, h.analysisCost); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *KeywordHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	entries, err := h.analysis.History(r.Context(), *userID, queryLimit(r, 20))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

func (h *KeywordHandler) Trending(w http.ResponseWriter, r *http.Request) {
	keywords, err := h.analysis.Trending(r.Context(), queryLimit(r, 10))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"keywords": keywords})
}

func (h *KeywordHandler) Details(w http.ResponseWriter, r *http.Request) {
	analysisID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid analysis ID", r))
		return
	}

	analysis, err := h.analysis.Details(r.Context(), analysisID, middleware.GetUserID(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

// Health reports credential-pool and provider readiness so operators can
// spot quota depletion before callers start seeing 503s.
func (h *KeywordHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if h.pool.Remaining() == 0 {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":                status,
		"credentials_total":     h.pool.Size(),
		"credentials_remaining": h.pool.Remaining(),
		"providers":             h.chain.Providers(),
	})
}

func queryLimit(r *http.Request, fallback int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 100 {
		return fallback
	}
	return limit
}
