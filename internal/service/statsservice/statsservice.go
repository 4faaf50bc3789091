package statsservice

import (
	"context"
	"net/url"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"golang.org/x/sync/errgroup"
)

const (
	summaryPath     = "statistics/summary"
	consumptionPath = "statistics/consumption"
	rechargePath    = "statistics/recharge"
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

func (s *Service) Summary(ctx context.Context) (*domain.DashboardSummary, error) {
	var summary domain.DashboardSummary
	if err := s.api.Do(ctx, client.Get(summaryPath, nil), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Consumption returns daily spend between q.From and q.To inclusive.
func (s *Service) Consumption(ctx context.Context, q dto.StatsQueryDTO) ([]domain.SeriesPoint, error) {
	return s.series(ctx, consumptionPath, q)
}

// Recharges returns daily recharge totals between q.From and q.To inclusive.
func (s *Service) Recharges(ctx context.Context, q dto.StatsQueryDTO) ([]domain.SeriesPoint, error) {
	return s.series(ctx, rechargePath, q)
}

// Dashboard fetches the summary and both series concurrently. The first
// failure cancels the other calls and is returned.
func (s *Service) Dashboard(ctx context.Context, q dto.StatsQueryDTO) (*domain.Dashboard, error) {
	if err := validate.Struct(q); err != nil {
		return nil, err
	}

	var dash domain.Dashboard
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := s.Summary(ctx)
		if err != nil {
			return err
		}
		dash.Summary = *summary
		return nil
	})
	g.Go(func() error {
		points, err := s.Consumption(ctx, q)
		dash.Consumption = points
		return err
	})
	g.Go(func() error {
		points, err := s.Recharges(ctx, q)
		dash.Recharges = points
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &dash, nil
}

func (s *Service) series(ctx context.Context, path string, q dto.StatsQueryDTO) ([]domain.SeriesPoint, error) {
	if err := validate.Struct(q); err != nil {
		return nil, err
	}
	query := url.Values{}
	if q.From != "" {
		query.Set("from", q.From)
	}
	if q.To != "" {
		query.Set("to", q.To)
	}
	var points []domain.SeriesPoint
	if err := s.api.Do(ctx, client.Get(path, query), &points); err != nil {
		return nil, err
	}
	return points, nil
}
