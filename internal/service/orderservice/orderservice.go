package orderservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"go.uber.org/zap"
)

const basePath = "orders"

var ErrInvalidOrderNumber = fmt.Errorf("%w: invalid order number", validate.ErrInvalidInput)

type Requester interface {
	Do(ctx context.Context, r client.Request, out any) error
}

type Service struct {
	api Requester
}

func New(api Requester) *Service {
	return &Service{api: api}
}

// List returns one page of orders. An empty typ lists both kinds.
func (s *Service) List(ctx context.Context, q domain.ListQuery, typ domain.OrderType) (*domain.Page[domain.Order], error) {
	values := q.Values()
	if typ != "" {
		values.Set("type", string(typ))
	}
	var page domain.Page[domain.Order]
	if err := s.api.Do(ctx, client.Get(basePath, values), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Service) Get(ctx context.Context, number string) (*domain.Order, error) {
	if err := checkNumber(number); err != nil {
		return nil, err
	}
	var order domain.Order
	if err := s.api.Do(ctx, client.Get(basePath+"/"+number, nil), &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) CreateDynamic(ctx context.Context, req dto.CreateDynamicOrderDTO) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.create(ctx, basePath+"/dynamic", req)
}

func (s *Service) CreateStatic(ctx context.Context, req dto.CreateStaticOrderDTO) (*domain.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.create(ctx, basePath+"/static", req)
}

// Renew extends an order by req.Duration days.
func (s *Service) Renew(ctx context.Context, number string, req dto.RenewOrderDTO) (*domain.Order, error) {
	if err := checkNumber(number); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	return s.create(ctx, basePath+"/"+number+"/renew", req)
}

func (s *Service) create(ctx context.Context, path string, body any) (*domain.Order, error) {
	var order domain.Order
	if err := s.api.Do(ctx, client.Post(path, body), &order); err != nil {
		return nil, err
	}
	if !validate.IsLuna(order.OrderNumber) {
		zap.L().Warn("backend returned an order number without a valid check digit",
			zap.String("order_number", order.OrderNumber))
	}
	zap.L().Info("order placed", zap.String("order_number", order.OrderNumber), zap.String("type", string(order.Type)))
	return &order, nil
}

func checkNumber(number string) error {
	if !validate.IsLuna(number) {
		return ErrInvalidOrderNumber
	}
	return nil
}

// IsInvalidNumber reports whether err rejected an order number locally.
func IsInvalidNumber(err error) bool {
	return errors.Is(err, ErrInvalidOrderNumber)
}
