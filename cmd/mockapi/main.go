package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/config"
	"github.com/GlebRadaev/proxyconsole/internal/mockapi"
	pkgauth "github.com/GlebRadaev/proxyconsole/pkg/auth"
	"github.com/GlebRadaev/proxyconsole/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//	@title			Proxy Reseller Mock API
//	@version		1.0
//	@description	In-memory reseller backend for console development.

//	@host		localhost:8081
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.NewMock()
	if err := logger.InitLogger(cfg.LogLvl); err != nil {
		log.Fatal().Err(err).Msg("Can't init logger")
	}

	store, err := mockapi.NewStore(pkgauth.NewHashService(bcrypt.DefaultCost), time.Now, mockapi.DefaultSeeds)
	if err != nil {
		zap.L().Fatal("Can't seed mock backend: ", zap.Error(err))
	}
	api := mockapi.New(store, pkgauth.NewJWTService(cfg.JWTSecret), cfg.TokenTTL)

	server := http.Server{
		Addr:              cfg.Address,
		Handler:           api.InitRoutes(chi.NewRouter()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		sCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Warn("mock backend shutdown: ", zap.Error(err))
		}
	}()

	zap.L().Info("starting mock backend", zap.String("address", cfg.Address))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Fatal("Mock backend exited with error: ", zap.Error(err))
	}
	zap.L().Info("Mock backend stopped")
}
