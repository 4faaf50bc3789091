package agents

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/render"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
)

type Service interface {
	List(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Agent], error)
	Get(ctx context.Context, id int64) (*domain.Agent, error)
	Create(ctx context.Context, req dto.CreateAgentDTO) (*domain.Agent, error)
	Update(ctx context.Context, id int64, req dto.UpdateAgentDTO) (*domain.Agent, error)
	SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error
	Users(ctx context.Context, id int64, q domain.ListQuery) (*domain.Page[domain.User], error)
}

type AgentHandler struct {
	agentService Service
}

func New(agentService Service) *AgentHandler {
	return &AgentHandler{
		agentService: agentService,
	}
}

type agentView struct {
	*domain.Agent
	BalanceDisplay    string `json:"balance_display"`
	CreditLineDisplay string `json:"credit_line_display"`
}

func view(a *domain.Agent) agentView {
	return agentView{
		Agent:             a,
		BalanceDisplay:    domain.FormatMoney(a.Balance),
		CreditLineDisplay: domain.FormatMoney(a.CreditLine),
	}
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.agentService.List(r.Context(), render.ListQuery(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	views := make([]agentView, len(page.List))
	for i := range page.List {
		views[i] = view(&page.List[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, domain.Page[agentView]{
		List:     views,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	})
}

func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := render.PathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	agent, err := h.agentService.Get(r.Context(), id)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view(agent))
}

func (h *AgentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAgentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	agent, err := h.agentService.Create(r.Context(), req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, view(agent))
}

func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := render.PathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req dto.UpdateAgentDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	agent, err := h.agentService.Update(r.Context(), id, req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, view(agent))
}

func (h *AgentHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := render.PathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req dto.StatusDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.agentService.SetStatus(r.Context(), id, req.Status); err != nil {
		render.Error(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Users lists the end users an agent brought in.
func (h *AgentHandler) Users(w http.ResponseWriter, r *http.Request) {
	id, err := render.PathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	page, err := h.agentService.Users(r.Context(), id, render.ListQuery(r))
	if err != nil {
		render.Error(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, page)
}
