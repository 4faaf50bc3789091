package mockapi

import (
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/dto"
)

func statsQuery(r *http.Request) dto.StatsQueryDTO {
	return dto.StatsQueryDTO{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
	}
}

// Summary godoc
//
//	@Summary	Dashboard counters
//	@Tags		Statistics
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	utils.Envelope{data=domain.DashboardSummary}
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/statistics/summary [get]
func (s *Server) Summary(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.Summary())
}

// Consumption godoc
//
//	@Summary	Daily spend on orders
//	@Tags		Statistics
//	@Produce	json
//	@Security	BearerAuth
//	@Param		from	query		string	false	"First day, YYYY-MM-DD"
//	@Param		to		query		string	false	"Last day, YYYY-MM-DD"
//	@Success	200		{object}	utils.Envelope{data=[]domain.SeriesPoint}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/statistics/consumption [get]
func (s *Server) Consumption(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.Consumption(statsQuery(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, points)
}

// RechargeSeries godoc
//
//	@Summary	Daily recharges
//	@Tags		Statistics
//	@Produce	json
//	@Security	BearerAuth
//	@Param		from	query		string	false	"First day, YYYY-MM-DD"
//	@Param		to		query		string	false	"Last day, YYYY-MM-DD"
//	@Success	200		{object}	utils.Envelope{data=[]domain.SeriesPoint}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/statistics/recharge [get]
func (s *Server) RechargeSeries(w http.ResponseWriter, r *http.Request) {
	points, err := s.store.Recharges(statsQuery(r))
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, points)
}

// GetSettings godoc
//
//	@Summary	System settings
//	@Tags		Settings
//	@Produce	json
//	@Security	BearerAuth
//	@Success	200	{object}	utils.Envelope{data=domain.Settings}
//	@Failure	401	{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/settings [get]
func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	ok(w, s.store.Settings())
}

// UpdateSettings godoc
//
//	@Summary	Change system settings
//	@Tags		Settings
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		body	body		dto.UpdateSettingsDTO	true	"Fields to change"
//	@Success	200		{object}	utils.Envelope{data=domain.Settings}
//	@Failure	401		{object}	utils.Envelope	"Missing or invalid token"
//	@Router		/settings [put]
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !requireAdmin(w, r) {
		return
	}
	var req dto.UpdateSettingsDTO
	if !decode(w, r, &req) {
		return
	}
	settings, err := s.store.UpdateSettings(req)
	if err != nil {
		fail(w, r, err)
		return
	}
	ok(w, settings)
}
