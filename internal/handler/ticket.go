package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/auth"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/repository"
	"github.com/hhpro-max/lucky-lottery/internal/service"
)

// TicketHandler handles ticket purchase and lookup endpoints.
type TicketHandler struct {
	tickets *service.TicketService
	db      repository.DBTX
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(tickets *service.TicketService, db repository.DBTX) *TicketHandler {
	return &TicketHandler{tickets: tickets, db: db}
}

// purchaseRequest is the body of POST /tickets.
type purchaseRequest struct {
	DrawID  uuid.UUID `json:"lottery_draw_id"`
	Numbers []int32   `json:"numbers"`
}

// Purchase handles POST /tickets.
func (h *TicketHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input purchaseRequest
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if input.DrawID == uuid.Nil {
		RespondError(w, domain.ErrValidation("lottery_draw_id is required"))
		return
	}

	result, err := h.tickets.Purchase(r.Context(), service.PurchaseParams{
		UserID:  userID,
		DrawID:  input.DrawID,
		Numbers: input.Numbers,
	})
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, result)
}

// List handles GET /tickets, optionally filtered by ?draw_id=.
func (h *TicketHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var drawID *uuid.UUID
	if raw := r.URL.Query().Get("draw_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			RespondError(w, domain.ErrValidation("invalid draw_id"))
			return
		}
		drawID = &id
	}

	tickets, err := h.tickets.ListByUser(r.Context(), h.db, userID, drawID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, map[string]interface{}{"tickets": tickets})
}

// Get handles GET /tickets/{id}.
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid ticket id"))
		return
	}

	ticket, err := h.tickets.GetByID(r.Context(), h.db, id, userID, auth.IsAdmin(r.Context()))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, ticket)
}

// GetDrawResult handles GET /draws/{id}/result.
func (h *TicketHandler) GetDrawResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid draw id"))
		return
	}

	view, err := h.tickets.GetDrawResult(r.Context(), h.db, id)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, view)
}
