package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/guard"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/agents"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/auth"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/balance"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/dashboard"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/orders"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/resources"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/settings"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/users"
	"github.com/GlebRadaev/proxyconsole/internal/service"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		AuthService:     auth.NewMockService(ctrl),
		UserService:     users.NewMockService(ctrl),
		UserBalance:     balance.NewMockService(ctrl),
		AgentService:    agents.NewMockService(ctrl),
		AgentBalance:    balance.NewMockService(ctrl),
		OrderService:    orders.NewMockService(ctrl),
		ResourceService: resources.NewMockService(ctrl),
		StatsService:    dashboard.NewMockService(ctrl),
		SettingsService: settings.NewMockService(ctrl),
	}

	h := New(services, NewMockGuard(ctrl))
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.UserBalanceHandler)
	assert.NotNil(t, h.AgentBalanceHandler)
}

func newRouter(t *testing.T, authenticated bool) http.Handler {
	ctrl := gomock.NewController(t)

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockUserHandler := NewMockUserHandler(ctrl)
	mockAgentHandler := NewMockAgentHandler(ctrl)
	mockUserBalance := NewMockBalanceHandler(ctrl)
	mockAgentBalance := NewMockBalanceHandler(ctrl)
	mockOrderHandler := NewMockOrderHandler(ctrl)
	mockResourceHandler := NewMockResourceHandler(ctrl)
	mockDashboardHandler := NewMockDashboardHandler(ctrl)
	mockSettingsHandler := NewMockSettingsHandler(ctrl)

	for _, expect := range []func(w, r any) *gomock.Call{
		mockAuthHandler.EXPECT().LoginPage,
		mockAuthHandler.EXPECT().Login,
		mockAuthHandler.EXPECT().Logout,
		mockAuthHandler.EXPECT().Profile,
		mockAuthHandler.EXPECT().UpdateProfile,
		mockAuthHandler.EXPECT().ChangePassword,
		mockUserHandler.EXPECT().List,
		mockUserHandler.EXPECT().Get,
		mockUserHandler.EXPECT().Create,
		mockUserHandler.EXPECT().Update,
		mockUserHandler.EXPECT().SetStatus,
		mockUserHandler.EXPECT().Delete,
		mockAgentHandler.EXPECT().List,
		mockAgentHandler.EXPECT().Get,
		mockAgentHandler.EXPECT().Create,
		mockAgentHandler.EXPECT().Update,
		mockAgentHandler.EXPECT().SetStatus,
		mockAgentHandler.EXPECT().Users,
		mockUserBalance.EXPECT().Recharge,
		mockUserBalance.EXPECT().Adjust,
		mockAgentBalance.EXPECT().Recharge,
		mockAgentBalance.EXPECT().Adjust,
		mockOrderHandler.EXPECT().GetOrders,
		mockOrderHandler.EXPECT().GetOrder,
		mockOrderHandler.EXPECT().DynamicOrders,
		mockOrderHandler.EXPECT().StaticOrders,
		mockOrderHandler.EXPECT().CreateDynamic,
		mockOrderHandler.EXPECT().CreateStatic,
		mockOrderHandler.EXPECT().Renew,
		mockResourceHandler.EXPECT().DynamicPackages,
		mockResourceHandler.EXPECT().StaticResources,
		mockResourceHandler.EXPECT().Regions,
		mockDashboardHandler.EXPECT().Dashboard,
		mockDashboardHandler.EXPECT().Consumption,
		mockDashboardHandler.EXPECT().Recharges,
		mockSettingsHandler.EXPECT().Get,
		mockSettingsHandler.EXPECT().Update,
	} {
		expect(gomock.Any(), gomock.Any()).AnyTimes()
	}

	store := session.NewMemoryStore()
	if authenticated {
		require.NoError(t, store.Save(context.Background(), domain.Session{Token: "abc"}))
	}

	h := &Handlers{
		AuthHandler:         mockAuthHandler,
		UserHandler:         mockUserHandler,
		UserBalanceHandler:  mockUserBalance,
		AgentHandler:        mockAgentHandler,
		AgentBalanceHandler: mockAgentBalance,
		OrderHandler:        mockOrderHandler,
		ResourceHandler:     mockResourceHandler,
		DashboardHandler:    mockDashboardHandler,
		SettingsHandler:     mockSettingsHandler,
		Guard: guard.New(store, guard.Options{
			LoginPath:   "/login",
			DefaultPath: "/dashboard",
			Public:      []string{"/healthz", "/metrics"},
		}),
	}

	router := chi.NewRouter()
	h.InitRoutes(router)
	return router
}

func TestInitRoutes_SignedIn(t *testing.T) {
	router := newRouter(t, true)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"GET", "/healthz", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/login", http.StatusFound},
		{"POST", "/logout", http.StatusOK},
		{"GET", "/profile", http.StatusOK},
		{"PUT", "/profile", http.StatusOK},
		{"POST", "/profile/password", http.StatusOK},
		{"GET", "/dashboard", http.StatusOK},
		{"GET", "/dashboard/consumption", http.StatusOK},
		{"GET", "/dashboard/recharges", http.StatusOK},
		{"GET", "/users", http.StatusOK},
		{"POST", "/users", http.StatusOK},
		{"GET", "/users/1", http.StatusOK},
		{"PUT", "/users/1", http.StatusOK},
		{"DELETE", "/users/1", http.StatusOK},
		{"PUT", "/users/1/status", http.StatusOK},
		{"POST", "/users/1/recharge", http.StatusOK},
		{"POST", "/users/1/adjust", http.StatusOK},
		{"GET", "/agents", http.StatusOK},
		{"POST", "/agents", http.StatusOK},
		{"GET", "/agents/2", http.StatusOK},
		{"PUT", "/agents/2", http.StatusOK},
		{"PUT", "/agents/2/status", http.StatusOK},
		{"GET", "/agents/2/users", http.StatusOK},
		{"POST", "/agents/2/recharge", http.StatusOK},
		{"POST", "/agents/2/adjust", http.StatusOK},
		{"GET", "/orders", http.StatusOK},
		{"GET", "/orders/79927398713", http.StatusOK},
		{"POST", "/orders/79927398713/renew", http.StatusOK},
		{"GET", "/order/dynamic", http.StatusOK},
		{"POST", "/order/dynamic", http.StatusOK},
		{"GET", "/order/static", http.StatusOK},
		{"POST", "/order/static", http.StatusOK},
		{"GET", "/resources/dynamic", http.StatusOK},
		{"GET", "/resources/static", http.StatusOK},
		{"GET", "/resources/regions", http.StatusOK},
		{"GET", "/settings", http.StatusOK},
		{"PUT", "/settings", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestInitRoutes_SignedOut(t *testing.T) {
	router := newRouter(t, false)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"GET", "/healthz", http.StatusOK},
		{"GET", "/login", http.StatusOK},
		{"POST", "/login", http.StatusOK},
		{"GET", "/dashboard", http.StatusFound},
		{"GET", "/users", http.StatusFound},
		{"POST", "/order/static", http.StatusFound},
		{"GET", "/settings", http.StatusFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusFound {
				assert.Equal(t, "/login", rec.Header().Get("Location"))
			}
		})
	}
}
