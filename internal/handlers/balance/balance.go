package balance

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

// Service moves money on one kind of account. Users and agents both satisfy it.
type Service interface {
	Recharge(ctx context.Context, id int64, req dto.RechargeDTO) (*domain.Recharge, error)
	AdjustBalance(ctx context.Context, id int64, req dto.AdjustBalanceDTO) (*domain.Recharge, error)
}

type BalanceHandler struct {
	balanceService Service
}

func New(balanceService Service) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

type rechargeView struct {
	*domain.Recharge
	BalanceDisplay string `json:"balance_display"`
}

func (h *BalanceHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	id, err := render.PathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req dto.RechargeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.balanceService.Recharge(r.Context(), id, req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	zap.L().Info("account recharged",
		zap.Int64("account_id", id), zap.String("amount", domain.FormatMoney(req.Amount)))
	utils.RespondWithJSON(w, http.StatusOK, rechargeView{Recharge: rec, BalanceDisplay: domain.FormatMoney(rec.Balance)})
}

func (h *BalanceHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	id, err := render.PathID(r)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	var req dto.AdjustBalanceDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rec, err := h.balanceService.AdjustBalance(r.Context(), id, req)
	if err != nil {
		render.Error(w, r, err)
		return
	}
	zap.L().Info("account balance adjusted",
		zap.Int64("account_id", id), zap.String("amount", domain.FormatMoney(req.Amount)), zap.String("reason", req.Reason))
	utils.RespondWithJSON(w, http.StatusOK, rechargeView{Recharge: rec, BalanceDisplay: domain.FormatMoney(rec.Balance)})
}
