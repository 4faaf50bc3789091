package dashboard

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/render"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
)

type Service interface {
	Dashboard(ctx context.Context, q dto.StatsQueryDTO) (*domain.Dashboard, error)
	Consumption(ctx context.Context, q dto.StatsQueryDTO) ([]domain.SeriesPoint, error)
	Recharges(ctx context.Context, q dto.StatsQueryDTO) ([]domain.SeriesPoint, error)
}

type DashboardHandler struct {
	statsService Service
}

func New(statsService Service) *DashboardHandler {
	return &DashboardHandler{
		statsService: statsService,
	}
}

func statsQuery(r *http.Request) dto.StatsQueryDTO {
	return dto.StatsQueryDTO{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
}

// Dashboard godoc
//
//	@Summary		Landing page data
//	@Description	Summary counters plus consumption and recharge series for the range.
//	@Tags			Dashboard
//	@Produce		json
//	@Param			from	query		string	false	"First day, YYYY-MM-DD"
//	@Param			to		query		string	false	"Last day, YYYY-MM-DD"
//	@Success		200		{object}	domain.Dashboard
//	@Failure		400		{object}	utils.Response	"Invalid date range"
//	@Failure		502		{object}	utils.Response	"Backend unavailable"
//	@Router			/dashboard [get]
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.statsService.Dashboard(r.Context(), statsQuery(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dash)
}

func (h *DashboardHandler) Consumption(w http.ResponseWriter, r *http.Request) {
	points, err := h.statsService.Consumption(r.Context(), statsQuery(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, series(points))
}

func (h *DashboardHandler) Recharges(w http.ResponseWriter, r *http.Request) {
	points, err := h.statsService.Recharges(r.Context(), statsQuery(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, series(points))
}

func series(points []domain.SeriesPoint) []domain.SeriesPoint {
	if points == nil {
		return []domain.SeriesPoint{}
	}
	return points
}
