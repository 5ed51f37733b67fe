package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/auth"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/service"
)

// PayoutHandler handles payout history endpoints.
type PayoutHandler struct {
	payouts *service.PayoutService
}

// NewPayoutHandler creates a new PayoutHandler.
func NewPayoutHandler(payouts *service.PayoutService) *PayoutHandler {
	return &PayoutHandler{payouts: payouts}
}

// List handles GET /payouts.
func (h *PayoutHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	payouts, err := h.payouts.ListByUser(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"payouts": payouts})
}

// Get handles GET /payouts/{id}.
func (h *PayoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	id, parseErr := uuid.Parse(chi.URLParam(r, "id"))
	if parseErr != nil {
		RespondError(w, domain.ErrValidation("invalid payout id"))
		return
	}

	payout, err := h.payouts.GetByID(r.Context(), id, userID, auth.IsAdmin(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, payout)
}
