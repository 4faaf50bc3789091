// Package clienttest wires a real client against an httptest backend.
package clienttest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/GlebRadaev/proxyconsole/pkg/clients"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const Token = "test-token"

type Backend struct {
	Client *client.Client
	Store  *session.MemoryStore
	Server *httptest.Server
}

// New starts handler behind a signed-in client. The server is closed when
// the test ends.
func New(t *testing.T, handler http.Handler) *Backend {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), domain.Session{
		Token: Token,
		User:  &domain.UserProfile{ID: 1, Username: "admin", Role: domain.RoleAdmin},
	}))

	c := client.New(
		client.Options{BaseURL: srv.URL, Timeout: 2 * time.Second},
		clients.NewHTTPClient(5*time.Second),
		store,
		client.NewNormalizer(store, nil, "/login"),
	)
	return &Backend{Client: c, Store: store, Server: srv}
}

// OK writes a success envelope around data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, map[string]any{"code": client.CodeOK, "msg": "ok", "data": data})
}

// Fail writes a failure envelope.
func Fail(w http.ResponseWriter, code int, msg string) {
	write(w, http.StatusOK, map[string]any{"code": code, "msg": msg})
}

// Decode reads a JSON request body into v. It is safe to call from handlers.
func Decode(t *testing.T, r *http.Request, v any) {
	t.Helper()
	assert.NoError(t, json.NewDecoder(r.Body).Decode(v))
}

func write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
