package statsservice

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/client/clienttest"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	summary = domain.DashboardSummary{
		TotalUsers:       42,
		TotalAgents:      3,
		ActiveOrders:     17,
		TodayConsumption: decimal.RequireFromString("320.4"),
		TodayRecharge:    decimal.RequireFromString("1000"),
		TotalBalance:     decimal.RequireFromString("15234.99"),
	}
	consumption = []domain.SeriesPoint{
		{Date: "2024-06-01", Amount: decimal.RequireFromString("120"), Count: 4},
		{Date: "2024-06-02", Amount: decimal.RequireFromString("200.4"), Count: 6},
	}
	recharges = []domain.SeriesPoint{
		{Date: "2024-06-01", Amount: decimal.RequireFromString("1000"), Count: 1},
	}
)

func backend(t *testing.T, failRecharge bool) (*Service, *atomic.Int32) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/statistics/summary", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		clienttest.OK(w, summary)
	})
	r.Get("/statistics/consumption", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "2024-06-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2024-06-02", r.URL.Query().Get("to"))
		clienttest.OK(w, consumption)
	})
	r.Get("/statistics/recharge", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if failRecharge {
			clienttest.Fail(w, 500, "statistics unavailable")
			return
		}
		clienttest.OK(w, recharges)
	})
	return New(clienttest.New(t, r).Client), &calls
}

var june = dto.StatsQueryDTO{From: "2024-06-01", To: "2024-06-02"}

func TestSummaryAndSeries(t *testing.T) {
	service, _ := backend(t, false)
	ctx := context.Background()

	got, err := service.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, &summary, got)
	assert.Equal(t, "15234.99", domain.FormatMoney(got.TotalBalance))

	points, err := service.Consumption(ctx, june)
	require.NoError(t, err)
	assert.Equal(t, consumption, points)

	points, err = service.Recharges(ctx, june)
	require.NoError(t, err)
	assert.Equal(t, recharges, points)
}

func TestDashboard(t *testing.T) {
	service, calls := backend(t, false)

	dash, err := service.Dashboard(context.Background(), june)

	require.NoError(t, err)
	assert.Equal(t, &domain.Dashboard{Summary: summary, Consumption: consumption, Recharges: recharges}, dash)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDashboard_FirstErrorWins(t *testing.T) {
	service, _ := backend(t, true)

	dash, err := service.Dashboard(context.Background(), june)

	assert.Nil(t, dash)
	ae, ok := client.AsApplication(err)
	require.True(t, ok)
	assert.Equal(t, "statistics unavailable", ae.Message)
}

func TestDashboard_InvalidRange(t *testing.T) {
	service, calls := backend(t, false)

	_, err := service.Dashboard(context.Background(), dto.StatsQueryDTO{From: "June 1st"})

	assert.ErrorIs(t, err, validate.ErrInvalidInput)
	assert.Zero(t, calls.Load())
}

func TestDashboard_Canceled(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/statistics/*", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	service := New(clienttest.New(t, r).Client)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := service.Dashboard(ctx, dto.StatsQueryDTO{})

	assert.True(t, client.IsNetwork(err))
}
