package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tubelens-backend/internal/models"
	"tubelens-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Resource not found", r))
	case errors.Is(err, services.ErrNoVideosFound):
		writeJSON(w, http.StatusNotFound, errorResp("NO_VIDEOS_FOUND", "No videos found for this keyword", r))
	case errors.Is(err, services.ErrInsufficientCredits):
		writeJSON(w, http.StatusPaymentRequired, errorResp("INSUFFICIENT_CREDITS", "Not enough credits for this operation", r))
	case errors.Is(err, services.ErrPoolExhausted), errors.Is(err, services.ErrPoolEmpty):
		writeJSON(w, http.StatusServiceUnavailable, errorResp("QUOTA_EXHAUSTED", "Video metadata quota is exhausted, try again later", r))
	case errors.Is(err, services.ErrMetadataUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResp("UPSTREAM_UNAVAILABLE", "Video metadata service is unavailable", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}
