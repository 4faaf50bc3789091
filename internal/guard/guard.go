package guard

import (
	"context"
	"strings"
	"sync"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"go.uber.org/zap"
)

type SessionReader interface {
	Load(ctx context.Context) (domain.Session, error)
}

type Options struct {
	LoginPath   string
	DefaultPath string
	// Public routes are reachable with or without a session.
	Public []string
}

// Decision is the outcome of one navigation check. Redirect is set iff !Allow.
type Decision struct {
	Allow    bool
	Redirect string
}

// Guard decides navigations from the current session. It reads the session
// store and never writes it; its only state is the path remembered from the
// last denied navigation.
type Guard struct {
	store SessionReader
	opts  Options

	mu         sync.Mutex
	remembered string
}

func New(store SessionReader, opts Options) *Guard {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.DefaultPath == "" {
		opts.DefaultPath = "/dashboard"
	}
	return &Guard{
		store: store,
		opts:  opts,
	}
}

func (g *Guard) LoginPath() string {
	return g.opts.LoginPath
}

// Check decides a navigation to path and remembers denied protected paths.
func (g *Guard) Check(ctx context.Context, path string) Decision {
	return g.check(ctx, path, true)
}

func (g *Guard) check(ctx context.Context, path string, remember bool) Decision {
	route := routeOf(path)
	authenticated := g.authenticated(ctx)

	switch {
	case route == g.opts.LoginPath:
		if authenticated {
			return Decision{Redirect: g.AfterLogin()}
		}
		return Decision{Allow: true}
	case g.isPublic(route):
		return Decision{Allow: true}
	case !authenticated:
		if remember {
			g.remember(path)
		}
		return Decision{Redirect: g.opts.LoginPath}
	default:
		return Decision{Allow: true}
	}
}

// AfterLogin returns where a fresh session lands: the remembered path if a
// navigation was denied earlier, the default route otherwise. The remembered
// path is consumed.
func (g *Guard) AfterLogin() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	target := g.remembered
	g.remembered = ""
	if target == "" {
		return g.opts.DefaultPath
	}
	return target
}

func (g *Guard) Remembered() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remembered
}

func (g *Guard) remember(path string) {
	if routeOf(path) == g.opts.LoginPath {
		return
	}
	g.mu.Lock()
	g.remembered = path
	g.mu.Unlock()
}

func (g *Guard) authenticated(ctx context.Context) bool {
	s, err := g.store.Load(ctx)
	if err != nil {
		zap.L().Warn("can't read session, treating as signed out", zap.Error(err))
		return false
	}
	return s.Authenticated()
}

func (g *Guard) isPublic(route string) bool {
	for _, p := range g.opts.Public {
		if route == p || (strings.HasSuffix(p, "/") && strings.HasPrefix(route, p)) {
			return true
		}
	}
	return false
}

func routeOf(path string) string {
	route, _, _ := strings.Cut(path, "?")
	if len(route) > 1 {
		route = strings.TrimRight(route, "/")
	}
	return route
}
