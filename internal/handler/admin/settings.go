package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hhpro-max/lucky-lottery/internal/domain"
	"github.com/hhpro-max/lucky-lottery/internal/handler"
	"github.com/hhpro-max/lucky-lottery/internal/service"
)

// SettingAdminHandler handles platform settings endpoints.
type SettingAdminHandler struct {
	admin *service.AdminService
}

// NewSettingAdminHandler creates a new SettingAdminHandler.
func NewSettingAdminHandler(admin *service.AdminService) *SettingAdminHandler {
	return &SettingAdminHandler{admin: admin}
}

// Put handles PUT /admin/settings/{key}.
func (h *SettingAdminHandler) Put(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var input struct {
		Value string `json:"value"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	if err := h.admin.PutSetting(r.Context(), key, input.Value); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"key": key, "value": input.Value})
}
