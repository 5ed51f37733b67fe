// Package admin holds the back-office HTTP handlers.
package admin

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/handler"
	"github.com/hhpro-max/lucky-lottery/internal/service"
	"github.com/hhpro-max/lucky-lottery/internal/settlement"
)

// DrawAdminHandler handles draw scheduling and lifecycle endpoints.
type DrawAdminHandler struct {
	admin   *service.AdminService
	payouts *service.PayoutService
	settler *settlement.Settler
}

// NewDrawAdminHandler creates a new DrawAdminHandler.
func NewDrawAdminHandler(admin *service.AdminService, payouts *service.PayoutService, settler *settlement.Settler) *DrawAdminHandler {
	return &DrawAdminHandler{admin: admin, payouts: payouts, settler: settler}
}

// createDrawRequest is the body of POST /admin/draws.
type createDrawRequest struct {
	GameTypeID uuid.UUID `json:"game_type_id"`
	DrawTime   time.Time `json:"draw_time"`
}

// Create handles POST /admin/draws.
func (h *DrawAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input createDrawRequest
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}
	if input.GameTypeID == uuid.Nil {
		handler.RespondError(w, domain.ErrValidation("game_type_id is required"))
		return
	}

	draw, err := h.admin.CreateDraw(r.Context(), input.GameTypeID, input.DrawTime)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, draw)
}

// List handles GET /admin/draws, optionally filtered by ?status=.
func (h *DrawAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	var status *domain.DrawStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := domain.DrawStatus(raw)
		switch s {
		case domain.DrawScheduled, domain.DrawCompleted, domain.DrawSettled, domain.DrawCancelled:
			status = &s
		default:
			handler.RespondError(w, domain.ErrValidation("invalid draw status"))
			return
		}
	}

	draws, err := h.admin.ListDraws(r.Context(), status)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"draws": draws})
}

// Get handles GET /admin/draws/{id}.
func (h *DrawAdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid draw id"))
		return
	}
	draw, err := h.admin.GetDraw(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, draw)
}

// Close handles PATCH /admin/draws/{id}/close.
func (h *DrawAdminHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid draw id"))
		return
	}
	if err := h.settler.CloseDraw(r.Context(), id); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": string(domain.DrawCompleted)})
}

// publishResultRequest is the body of PATCH /admin/draws/{id}/draw.
type publishResultRequest struct {
	Numbers []int32                `json:"numbers"`
	Tiers   []settlement.TierInput `json:"prizeTiers"`
	Jackpot *int64                 `json:"jackpotAmount,omitempty"`
}

// PublishResult handles PATCH /admin/draws/{id}/draw: entering the winning
// numbers and prize tiers for a closed draw.
func (h *DrawAdminHandler) PublishResult(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid draw id"))
		return
	}

	var input publishResultRequest
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	result, err := h.settler.PublishResult(r.Context(), id, input.Numbers, input.Tiers, input.Jackpot)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, result)
}

// Settle handles POST /admin/draws/{id}/settle.
func (h *DrawAdminHandler) Settle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid draw id"))
		return
	}

	summary, err := h.settler.SettleDraw(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, summary)
}

// ListPayouts handles GET /admin/draws/{id}/payouts.
func (h *DrawAdminHandler) ListPayouts(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid draw id"))
		return
	}

	payouts, err := h.payouts.ListByDraw(r.Context(), id)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"payouts": payouts})
}
