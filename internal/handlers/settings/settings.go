package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/render"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
	"go.uber.org/zap"
)

type Service interface {
	Get(ctx context.Context) (*domain.Settings, error)
	Update(ctx context.Context, req dto.UpdateSettingsDTO) (*domain.Settings, error)
}

type SettingsHandler struct {
	settingsService Service
}

func New(settingsService Service) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.settingsService.Get(r.Context())
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	s, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	zap.L().Info("system settings updated", zap.String("site_name", s.SiteName))
	utils.RespondWithJSON(w, http.StatusOK, s)
}
