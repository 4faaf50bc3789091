package dashboard

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*DashboardHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func TestDashboardHandler(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		url          string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "Range is passed through",
			url:  "/dashboard?from=2026-10-01&to=2026-10-19",
			prepareMock: func() {
				service.EXPECT().
					Dashboard(gomock.Any(), dto.StatsQueryDTO{From: "2026-10-01", To: "2026-10-19"}).
					Return(&domain.Dashboard{
						Summary:     domain.DashboardSummary{TotalUsers: 3, TodayConsumption: decimal.Zero, TodayRecharge: decimal.Zero, TotalBalance: decimal.RequireFromString("12.5")},
						Consumption: []domain.SeriesPoint{{Date: "2026-10-19", Amount: decimal.RequireFromString("4"), Count: 1}},
						Recharges:   []domain.SeriesPoint{},
					}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{
				"summary":{"total_users":3,"total_agents":0,"active_orders":0,"today_consumption":"0","today_recharge":"0","total_balance":"12.5"},
				"consumption":[{"date":"2026-10-19","amount":"4","count":1}],
				"recharges":[]
			}`,
		},
		{
			name: "Invalid range",
			url:  "/dashboard?from=yesterday",
			prepareMock: func() {
				service.EXPECT().
					Dashboard(gomock.Any(), dto.StatsQueryDTO{From: "yesterday"}).
					Return(nil, fmt.Errorf("%w: from must be a date", validate.ErrInvalidInput))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"invalid input: from must be a date"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := httptest.NewRecorder()
			handler.Dashboard(rr, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestSeriesHandlers(t *testing.T) {
	handler, service := NewMock(t)

	service.EXPECT().Consumption(gomock.Any(), dto.StatsQueryDTO{}).Return(nil, nil)
	service.EXPECT().
		Recharges(gomock.Any(), dto.StatsQueryDTO{To: "2026-10-19"}).
		Return([]domain.SeriesPoint{{Date: "2026-10-19", Amount: decimal.RequireFromString("100"), Count: 2}}, nil)

	rr := httptest.NewRecorder()
	handler.Consumption(rr, httptest.NewRequest(http.MethodGet, "/dashboard/consumption", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())

	rr = httptest.NewRecorder()
	handler.Recharges(rr, httptest.NewRequest(http.MethodGet, "/dashboard/recharges?to=2026-10-19", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"date":"2026-10-19","amount":"100","count":2}]`, rr.Body.String())
}
