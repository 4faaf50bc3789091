package agentservice

import (
	"context"
	"strconv"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
)

const basePath = "agents"

type Requester interface {
	Do(ctx context.Context, r client.Request, out any) error
}

type Service struct {
	api Requester
}

func New(api Requester) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.Agent], error) {
	var page domain.Page[domain.Agent]
	if err := s.api.Do(ctx, client.Get(basePath, q.Values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Agent, error) {
	if err := validate.PositiveID(id); err != nil {
		return nil, err
	}
	var agent domain.Agent
	if err := s.api.Do(ctx, client.Get(agentPath(id), nil), &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (s *Service) Create(ctx context.Context, req dto.CreateAgentDTO) (*domain.Agent, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.CreditLine.IsNegative() {
		return nil, validate.NonNegative("credit line")
	}
	var agent domain.Agent
	if err := s.api.Do(ctx, client.Post(basePath, req), &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (s *Service) Update(ctx context.Context, id int64, req dto.UpdateAgentDTO) (*domain.Agent, error) {
	if err := validate.PositiveID(id); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.CreditLine != nil && req.CreditLine.IsNegative() {
		return nil, validate.NonNegative("credit line")
	}
	var agent domain.Agent
	if err := s.api.Do(ctx, client.Put(agentPath(id), req), &agent); err != nil {
		return nil, err
	}
	return &agent, nil
}

func (s *Service) SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	if err := validate.PositiveID(id); err != nil {
		return err
	}
	req := dto.StatusDTO{Status: status}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return s.api.Do(ctx, client.Put(agentPath(id)+"/status", req), nil)
}

func (s *Service) Recharge(ctx context.Context, id int64, req dto.RechargeDTO) (*domain.Recharge, error) {
	if err := validate.PositiveID(id); err != nil {
		return nil, err
	}
	if err := validate.PositiveAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var rec domain.Recharge
	if err := s.api.Do(ctx, client.Post(agentPath(id)+"/recharge", req), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) AdjustBalance(ctx context.Context, id int64, req dto.AdjustBalanceDTO) (*domain.Recharge, error) {
	if err := validate.PositiveID(id); err != nil {
		return nil, err
	}
	if err := validate.NonZeroAmount(req.Amount); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var rec domain.Recharge
	if err := s.api.Do(ctx, client.Post(agentPath(id)+"/adjust", req), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Users lists the end users registered under an agent.
func (s *Service) Users(ctx context.Context, id int64, q domain.ListQuery) (*domain.Page[domain.User], error) {
	if err := validate.PositiveID(id); err != nil {
		return nil, err
	}
	var page domain.Page[domain.User]
	if err := s.api.Do(ctx, client.Get(agentPath(id)+"/users", q.Values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func agentPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}
