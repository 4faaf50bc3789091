package service

import (
	"github.com/GlebRadaev/proxyconsole/internal/handlers/agents"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/auth"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/balance"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/dashboard"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/orders"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/resources"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/settings"
	"github.com/GlebRadaev/proxyconsole/internal/handlers/users"

	"github.com/GlebRadaev/proxyconsole/internal/service/agentservice"
	"github.com/GlebRadaev/proxyconsole/internal/service/authservice"
	"github.com/GlebRadaev/proxyconsole/internal/service/orderservice"
	"github.com/GlebRadaev/proxyconsole/internal/service/resourceservice"
	"github.com/GlebRadaev/proxyconsole/internal/service/settingsservice"
	"github.com/GlebRadaev/proxyconsole/internal/service/statsservice"
	"github.com/GlebRadaev/proxyconsole/internal/service/userservice"
)

type Services struct {
	AuthService     auth.Service
	UserService     users.Service
	UserBalance     balance.Service
	AgentService    agents.Service
	AgentBalance    balance.Service
	OrderService    orders.Service
	ResourceService resources.Service
	StatsService    dashboard.Service
	SettingsService settings.Service
}

// New builds every service on one request client. The auth service is the
// only one that touches the session store directly.
func New(api authservice.Requester, store authservice.Store) *Services {
	userService := userservice.New(api)
	agentService := agentservice.New(api)

	return &Services{
		AuthService:     authservice.New(api, store),
		UserService:     userService,
		UserBalance:     userService,
		AgentService:    agentService,
		AgentBalance:    agentService,
		OrderService:    orderservice.New(api),
		ResourceService: resourceservice.New(api),
		StatsService:    statsservice.New(api),
		SettingsService: settingsservice.New(api),
	}
}
