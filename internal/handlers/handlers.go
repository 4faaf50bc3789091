package handlers

import (
	"net/http"

	agentshandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/agents"
	authhandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/auth"
	balancehandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/balance"
	dashboardhandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/dashboard"
	ordershandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/orders"
	resourceshandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/resources"
	settingshandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/settings"
	usershandlers "github.com/GlebRadaev/proxyconsole/internal/handlers/users"
	"github.com/GlebRadaev/proxyconsole/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AuthHandler interface {
	LoginPage(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Profile(w http.ResponseWriter, r *http.Request)
	UpdateProfile(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type AgentHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	SetStatus(w http.ResponseWriter, r *http.Request)
	Users(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	Recharge(w http.ResponseWriter, r *http.Request)
	Adjust(w http.ResponseWriter, r *http.Request)
}

type OrderHandler interface {
	GetOrders(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	DynamicOrders(w http.ResponseWriter, r *http.Request)
	StaticOrders(w http.ResponseWriter, r *http.Request)
	CreateDynamic(w http.ResponseWriter, r *http.Request)
	CreateStatic(w http.ResponseWriter, r *http.Request)
	Renew(w http.ResponseWriter, r *http.Request)
}

type ResourceHandler interface {
	DynamicPackages(w http.ResponseWriter, r *http.Request)
	StaticResources(w http.ResponseWriter, r *http.Request)
	Regions(w http.ResponseWriter, r *http.Request)
}

type DashboardHandler interface {
	Dashboard(w http.ResponseWriter, r *http.Request)
	Consumption(w http.ResponseWriter, r *http.Request)
	Recharges(w http.ResponseWriter, r *http.Request)
}

type SettingsHandler interface {
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
}

// Guard protects every console route except the public ones.
type Guard interface {
	authhandlers.Navigator
	Middleware(next http.Handler) http.Handler
}

type Handlers struct {
	AuthHandler         AuthHandler
	UserHandler         UserHandler
	UserBalanceHandler  BalanceHandler
	AgentHandler        AgentHandler
	AgentBalanceHandler BalanceHandler
	OrderHandler        OrderHandler
	ResourceHandler     ResourceHandler
	DashboardHandler    DashboardHandler
	SettingsHandler     SettingsHandler
	Guard               Guard
}

func New(s *service.Services, guard Guard) *Handlers {
	return &Handlers{
		AuthHandler:         authhandlers.New(s.AuthService, guard),
		UserHandler:         usershandlers.New(s.UserService),
		UserBalanceHandler:  balancehandlers.New(s.UserBalance),
		AgentHandler:        agentshandlers.New(s.AgentService),
		AgentBalanceHandler: balancehandlers.New(s.AgentBalance),
		OrderHandler:        ordershandlers.New(s.OrderService),
		ResourceHandler:     resourceshandlers.New(s.ResourceService),
		DashboardHandler:    dashboardhandlers.New(s.StatsService),
		SettingsHandler:     settingshandlers.New(s.SettingsService),
		Guard:               guard,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.RequestID,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(h.Guard.Middleware)

		r.Get("/login", h.AuthHandler.LoginPage)
		r.Post("/login", h.AuthHandler.Login)
		r.Post("/logout", h.AuthHandler.Logout)

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", h.AuthHandler.Profile)
			r.Put("/", h.AuthHandler.UpdateProfile)
			r.Post("/password", h.AuthHandler.ChangePassword)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", h.DashboardHandler.Dashboard)
			r.Get("/consumption", h.DashboardHandler.Consumption)
			r.Get("/recharges", h.DashboardHandler.Recharges)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.UserHandler.List)
			r.Post("/", h.UserHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.UserHandler.Get)
				r.Put("/", h.UserHandler.Update)
				r.Delete("/", h.UserHandler.Delete)
				r.Put("/status", h.UserHandler.SetStatus)
				r.Post("/recharge", h.UserBalanceHandler.Recharge)
				r.Post("/adjust", h.UserBalanceHandler.Adjust)
			})
		})

		r.Route("/agents", func(r chi.Router) {
			r.Get("/", h.AgentHandler.List)
			r.Post("/", h.AgentHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.AgentHandler.Get)
				r.Put("/", h.AgentHandler.Update)
				r.Put("/status", h.AgentHandler.SetStatus)
				r.Get("/users", h.AgentHandler.Users)
				r.Post("/recharge", h.AgentBalanceHandler.Recharge)
				r.Post("/adjust", h.AgentBalanceHandler.Adjust)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.OrderHandler.GetOrders)
			r.Get("/{number}", h.OrderHandler.GetOrder)
			r.Post("/{number}/renew", h.OrderHandler.Renew)
		})
		r.Route("/order", func(r chi.Router) {
			r.Get("/dynamic", h.OrderHandler.DynamicOrders)
			r.Post("/dynamic", h.OrderHandler.CreateDynamic)
			r.Get("/static", h.OrderHandler.StaticOrders)
			r.Post("/static", h.OrderHandler.CreateStatic)
		})

		r.Route("/resources", func(r chi.Router) {
			r.Get("/dynamic", h.ResourceHandler.DynamicPackages)
			r.Get("/static", h.ResourceHandler.StaticResources)
			r.Get("/regions", h.ResourceHandler.Regions)
		})

		r.Get("/settings", h.SettingsHandler.Get)
		r.Put("/settings", h.SettingsHandler.Update)
	})

	return r
}
