package guard

import (
	"context"
	"net/http"
	"sync"

	"go.uber.org/zap"
)

type navigationKey struct{}

// navigation is the per-request record a forced redirect is written to.
type navigation struct {
	mu       sync.Mutex
	path     string
	memorize bool
	target   string
}

// Middleware applies Check to every request and attaches a navigation record
// so that a session expiring mid-request can redirect the response.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.RequestURI()
		memorize := isNavigation(r)

		d := g.check(r.Context(), path, memorize)
		if !d.Allow {
			http.Redirect(w, r, d.Redirect, http.StatusFound)
			return
		}

		nav := &navigation{path: path, memorize: memorize}
		ctx := context.WithValue(r.Context(), navigationKey{}, nav)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Redirect records a client-side redirect on the current request. A redirect
// to the login route also remembers the interrupted navigation.
func (g *Guard) Redirect(ctx context.Context, to string) {
	nav, ok := ctx.Value(navigationKey{}).(*navigation)
	if !ok {
		zap.L().Debug("redirect outside of a navigation", zap.String("to", to))
		return
	}
	nav.mu.Lock()
	nav.target = to
	path, memorize := nav.path, nav.memorize
	nav.mu.Unlock()

	if to == g.opts.LoginPath && memorize {
		g.remember(path)
	}
}

// PendingRedirect reports a redirect recorded on the current request.
func PendingRedirect(ctx context.Context) (string, bool) {
	nav, ok := ctx.Value(navigationKey{}).(*navigation)
	if !ok {
		return "", false
	}
	nav.mu.Lock()
	defer nav.mu.Unlock()
	return nav.target, nav.target != ""
}

func isNavigation(r *http.Request) bool {
	return r.Method == http.MethodGet || r.Method == http.MethodHead
}
