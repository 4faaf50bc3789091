package resourceservice

import (
	"context"
	"net/url"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
)

const (
	dynamicPath = "resources/dynamic"
	staticPath  = "resources/static"
	regionsPath = "resources/regions"
)

type Requester interface {
	Do(ctx context.Context, r client.Request, out any) error
}

type Service struct {
	api Requester
}

func New(api Requester) *Service {
	return &Service{api: api}
}

// DynamicPackages lists the rotating-IP traffic packages on sale.
func (s *Service) DynamicPackages(ctx context.Context) ([]domain.Resource, error) {
	var list []domain.Resource
	if err := s.api.Do(ctx, client.Get(dynamicPath, nil), &list); err != nil {
		return nil, err
	}
	return list, nil
}

// StaticResources lists static IP stock, optionally narrowed to one region.
func (s *Service) StaticResources(ctx context.Context, region string) ([]domain.Resource, error) {
	var query url.Values
	if region != "" {
		query = url.Values{"region": {region}}
	}
	var list []domain.Resource
	if err := s.api.Do(ctx, client.Get(staticPath, query), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Service) Regions(ctx context.Context) ([]domain.Region, error) {
	var list []domain.Region
	if err := s.api.Do(ctx, client.Get(regionsPath, nil), &list); err != nil {
		return nil, err
	}
	return list, nil
}
