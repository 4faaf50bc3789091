// Package mockapi is an in-memory stand-in for the reseller backend. It
// speaks the same envelope protocol and is what the console runs against
// in development and in end-to-end tests.
package mockapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	_ "github.com/GlebRadaev/proxyconsole/docs"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	pkgauth "github.com/GlebRadaev/proxyconsole/pkg/auth"
	"github.com/GlebRadaev/proxyconsole/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const msgSuccess = "success"

type Server struct {
	store    *Store
	jwt      pkgauth.JWTServiceInterface
	tokenTTL time.Duration
}

func New(store *Store, jwt pkgauth.JWTServiceInterface, tokenTTL time.Duration) *Server {
	return &Server{
		store:    store,
		jwt:      jwt,
		tokenTTL: tokenTTL,
	}
}

func (s *Server) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/login", s.Login)

		r.Group(func(r chi.Router) {
			r.Use(pkgauth.AuthMiddleware(s.jwt))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/logout", s.Logout)
				r.Get("/current-user", s.CurrentUser)
				r.Put("/profile", s.UpdateProfile)
				r.Post("/password", s.ChangePassword)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.ListUsers)
				r.Post("/", s.CreateUser)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetUser)
					r.Put("/", s.UpdateUser)
					r.Delete("/", s.DeleteUser)
					r.Put("/status", s.SetUserStatus)
					r.Post("/recharge", s.RechargeUser)
					r.Post("/adjust", s.AdjustUser)
				})
			})

			r.Route("/agents", func(r chi.Router) {
				r.Get("/", s.ListAgents)
				r.Post("/", s.CreateAgent)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", s.GetAgent)
					r.Put("/", s.UpdateAgent)
					r.Get("/users", s.AgentUsers)
					r.Put("/status", s.SetAgentStatus)
					r.Post("/recharge", s.RechargeAgent)
					r.Post("/adjust", s.AdjustAgent)
				})
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", s.ListOrders)
				r.Post("/dynamic", s.CreateDynamicOrder)
				r.Post("/static", s.CreateStaticOrder)
				r.Get("/{number}", s.GetOrder)
				r.Post("/{number}/renew", s.RenewOrder)
			})

			r.Route("/resources", func(r chi.Router) {
				r.Get("/dynamic", s.DynamicPackages)
				r.Get("/static", s.StaticResources)
				r.Get("/regions", s.Regions)
			})

			r.Route("/statistics", func(r chi.Router) {
				r.Get("/summary", s.Summary)
				r.Get("/consumption", s.Consumption)
				r.Get("/recharge", s.RechargeSeries)
			})

			r.Get("/settings", s.GetSettings)
			r.Put("/settings", s.UpdateSettings)
		})
	})

	return r
}

func ok(w http.ResponseWriter, data any) {
	utils.RespondWithEnvelope(w, http.StatusOK, CodeOK, msgSuccess, data)
}

// fail reports business errors with HTTP 200. HTTP 401 is reserved for the
// auth middleware.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var e *Error
	if errors.As(err, &e) {
		utils.RespondWithEnvelope(w, http.StatusOK, e.Code, e.Msg, nil)
		return
	}
	zap.L().Error("mock backend failure", zap.String("path", r.URL.Path), zap.Error(err))
	utils.RespondWithEnvelope(w, http.StatusInternalServerError, CodeInternal, "internal server error", nil)
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		fail(w, r, invalid("invalid request body"))
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		fail(w, r, invalid("id must be a positive number"))
		return 0, false
	}
	return id, true
}

func claims(r *http.Request) *pkgauth.Claims {
	c, _ := pkgauth.ClaimsFrom(r.Context())
	return c
}

func requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if c := claims(r); c == nil || c.Role != string(domain.RoleAdmin) {
		fail(w, r, newError(CodeForbidden, "admin only"))
		return false
	}
	return true
}
