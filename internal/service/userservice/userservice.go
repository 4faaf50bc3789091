package userservice

import (
	"context"
	"strconv"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
)

const basePath = "users"

type Requester interface {
	Do(ctx context.Context, r client.Request, out any) error
}

type Service struct {
	api Requester
}

func New(api Requester) *Service {
	return &Service{api: api}
}

func (s *Service) List(ctx context.Context, q domain.ListQuery) (*domain.Page[domain.User], error) {
	var page domain.Page[domain.User]
	if err := s.api.Do(ctx, client.Get(basePath, q.Values()), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	if err := validate.PositiveID(id); err != nil {
		return nil, err
	}
	var user domain.User
	if err := s.api.Do(ctx, client.Get(userPath(id), nil), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) Create(ctx context.Context, req dto.CreateUserDTO) (*domain.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var user domain.User
	if err := s.api.Do(ctx, client.Post(basePath, req), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) Update(ctx context.Context, id int64, req dto.UpdateUserDTO) (*domain.User, error) {
	if err := validate.PositiveID(id); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	var user domain.User
	if err := s.api.Do(ctx, client.Put(userPath(id), req), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) SetStatus(ctx context.Context, id int64, status domain.AccountStatus) error {
	if err := validate.PositiveID(id); err != nil {
		return err
	}
	req := dto.StatusDTO{Status: status}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return s.api.Do(ctx, client.Put(userPath(id)+"/status", req), nil)
}

// Recharge credits the user's balance and returns the ledger entry.
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
	if err := s.api.Do(ctx, client.Post(userPath(id)+"/recharge", req), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// AdjustBalance applies a signed correction; negative amounts debit.
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
	if err := s.api.Do(ctx, client.Post(userPath(id)+"/adjust", req), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := validate.PositiveID(id); err != nil {
		return err
	}
	return s.api.Do(ctx, client.Delete(userPath(id)), nil)
}

func userPath(id int64) string {
	return basePath + "/" + strconv.FormatInt(id, 10)
}
