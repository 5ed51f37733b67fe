package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/handler"
	"github.com/hhpro-max/lucky-lottery/internal/service"
)

// GameTypeAdminHandler handles the game catalogue endpoints.
type GameTypeAdminHandler struct {
	admin *service.AdminService
}

// NewGameTypeAdminHandler creates a new GameTypeAdminHandler.
func NewGameTypeAdminHandler(admin *service.AdminService) *GameTypeAdminHandler {
	return &GameTypeAdminHandler{admin: admin}
}

// List handles GET /admin/game-types.
func (h *GameTypeAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	gameTypes, err := h.admin.ListGameTypes(r.Context())
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{"game_types": gameTypes})
}

// Create handles POST /admin/game-types.
func (h *GameTypeAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.GameTypeParams
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	gt, err := h.admin.CreateGameType(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, gt)
}

// Update handles PATCH /admin/game-types/{id}.
func (h *GameTypeAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid game type id"))
		return
	}

	var input service.GameTypeParams
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	gt, err := h.admin.UpdateGameType(r.Context(), id, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, gt)
}
