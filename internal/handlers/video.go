package handlers

import (
	"net/http"
	"strings"

	"tubelens-backend/internal/services"
)

type VideoHandler struct {
	trending      *services.TrendingService
	defaultRegion string
}

func NewVideoHandler(trending *services.TrendingService, defaultRegion string) *VideoHandler {
	return &VideoHandler{trending: trending, defaultRegion: defaultRegion}
}

func (h *VideoHandler) Trending(w http.ResponseWriter, r *http.Request) {
	region := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("region")))
	if region == "" {
		region = h.defaultRegion
	}

	snapshot, err := h.trending.Snapshot(r.Context(), region)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}
