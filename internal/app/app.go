package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/config"
	"github.com/GlebRadaev/proxyconsole/internal/guard"
	"github.com/GlebRadaev/proxyconsole/internal/handlers"
	"github.com/GlebRadaev/proxyconsole/internal/pg"
	"github.com/GlebRadaev/proxyconsole/internal/refresher"
	cacherepo "github.com/GlebRadaev/proxyconsole/internal/repo/cache-repo"
	sessionrepo "github.com/GlebRadaev/proxyconsole/internal/repo/session-repo"
	"github.com/GlebRadaev/proxyconsole/internal/service"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/GlebRadaev/proxyconsole/pkg/clients"
	"github.com/GlebRadaev/proxyconsole/pkg/logger"
)

const (
	StoreMemory   = "memory"
	StoreFile     = "file"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
)

// Per-call timeouts may exceed the configured default, up to this ceiling.
const transportTimeout = 2 * time.Minute

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg   *config.Config
	api   *handlers.Handlers
	srv   *service.Services
	store session.Store
	ext   *refresher.Service

	closers []func()
	errCh   chan error
	wg      sync.WaitGroup
	ready   bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg.LogLvl)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}
	a.cfg = cfg

	store, closer, err := newStore(ctx, cfg)
	if err != nil {
		zap.L().Error("build session store failed: ", zap.String("driver", cfg.StoreDriver), zap.Error(err))
		return fmt.Errorf("can't build session store: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, closer)

	nav := guard.New(store, guard.Options{
		LoginPath:   cfg.LoginPath,
		DefaultPath: cfg.DefaultPath,
		Public:      []string{"/healthz", "/metrics"},
	})
	api := client.New(
		client.Options{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout},
		clients.NewHTTPClient(transportTimeout),
		store,
		client.NewNormalizer(store, nav, cfg.LoginPath),
	)

	a.srv = service.New(api, store)
	a.api = handlers.New(a.srv, nav)
	a.ext = refresher.New(a.srv.AuthService, cfg.RefreshInterval)

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.startRefresher(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully",
		zap.String("backend", cfg.APIBaseURL), zap.String("store", cfg.StoreDriver))
	return nil
}

// newStore picks the session store backend. The returned closer releases
// its connections and is never nil.
func newStore(ctx context.Context, cfg *config.Config) (session.Store, func(), error) {
	nop := func() {}

	switch cfg.StoreDriver {
	case StoreMemory:
		return session.NewMemoryStore(), nop, nil
	case StoreFile:
		return session.NewFileStore(cfg.StorePath), nop, nil
	case StorePostgres:
		pool, err := getPgxpool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("can't build pgx pool: %w", err)
		}
		if err := pg.RunMigrations(pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("can't run migrations: %w", err)
		}
		return sessionrepo.New(pool, pg.NewTXManager(pool)), pool.Close, nil
	case StoreRedis:
		rdb, err := cacherepo.Connect(ctx, cfg.RedisAddress)
		if err != nil {
			return nil, nil, err
		}
		return cacherepo.New(rdb, cfg.RedisPrefix), func() {
			if err := rdb.Close(); err != nil {
				zap.L().Warn("can't close redis client", zap.Error(err))
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown session store driver %q", cfg.StoreDriver)
	}
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		dbpool.Close()
		return nil, err
	}
	return dbpool, nil
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Warn("http server shutdown: ", zap.Error(err))
		}
		for _, closeFn := range a.closers {
			closeFn()
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

func (a *Application) startRefresher(ctx context.Context) {
	a.ext.Start(ctx)
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
