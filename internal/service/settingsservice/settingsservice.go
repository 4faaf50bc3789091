package settingsservice

import (
	"context"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
)

const settingsPath = "settings"

type Requester interface {
	Do(ctx context.Context, r client.Request, out any) error
}

type Service struct {
	api Requester
}

func New(api Requester) *Service {
	return &Service{api: api}
}

func (s *Service) Get(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	if err := s.api.Do(ctx, client.Get(settingsPath, nil), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Update sends only the fields set in req and returns the stored settings.
func (s *Service) Update(ctx context.Context, req dto.UpdateSettingsDTO) (*domain.Settings, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.MinRecharge != nil && req.MinRecharge.IsNegative() {
		return nil, validate.NonNegative("min recharge")
	}
	if req.DefaultAgentLimit != nil && req.DefaultAgentLimit.IsNegative() {
		return nil, validate.NonNegative("default agent limit")
	}
	var settings domain.Settings
	if err := s.api.Do(ctx, client.Put(settingsPath, req), &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
