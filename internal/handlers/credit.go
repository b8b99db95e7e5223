package handlers

import (
	"net/http"

	"tubelens-backend/internal/middleware"
	"tubelens-backend/internal/services"
)

type CreditHandler struct {
	ledger *services.CreditLedger
}

func NewCreditHandler(ledger *services.CreditLedger) *CreditHandler {
	return &CreditHandler{ledger: ledger}
}

func (h *CreditHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	balance, err := h.ledger.Balance(r.Context(), *userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"credits": balance})
}
