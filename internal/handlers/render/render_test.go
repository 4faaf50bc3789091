package render

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/guard"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Session expired outside a navigation",
			err:          &client.SessionExpiredError{},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"message":"Session expired"}`,
		},
		{
			name:         "Invalid input",
			err:          validate.PositiveID(0),
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"invalid input: id must be positive"}`,
		},
		{
			name:         "Application error",
			err:          &client.ApplicationError{Code: 1001, Message: "insufficient balance"},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"message":"insufficient balance","code":1001}`,
		},
		{
			name:         "Network error",
			err:          &client.NetworkError{Err: errors.New("connection refused")},
			expectedCode: http.StatusBadGateway,
			expectedBody: `{"message":"Backend unavailable"}`,
		},
		{
			name:         "Network timeout",
			err:          &client.NetworkError{Err: context.DeadlineExceeded},
			expectedCode: http.StatusGatewayTimeout,
			expectedBody: `{"message":"Backend timed out"}`,
		},
		{
			name:         "Anything else",
			err:          errors.New("boom"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"message":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			Error(rr, httptest.NewRequest(http.MethodGet, "/users", nil), tt.err)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestError_SessionExpiredFollowsGuard(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Save(context.Background(), domain.Session{Token: "abc"}))
	g := guard.New(store, guard.Options{LoginPath: "/login"})

	h := g.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.Redirect(r.Context(), "/login")
		Error(w, r, &client.SessionExpiredError{})
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/agents", nil))

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Equal(t, "/agents", g.Remembered())
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name        string
		id          string
		expected    int64
		expectError bool
	}{
		{name: "Valid", id: "42", expected: 42},
		{name: "Zero", id: "0", expectError: true},
		{name: "Not a number", id: "abc", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			var (
				got int64
				err error
			)
			r.Get("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
				got, err = PathID(r)
			})
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/"+tt.id, nil))

			if tt.expectError {
				assert.ErrorIs(t, err, validate.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestListQuery(t *testing.T) {
	q := ListQuery(httptest.NewRequest(http.MethodGet, "/users?page=3&page_size=50&keyword=bob&status=active", nil))

	assert.Equal(t, domain.ListQuery{Page: 3, PageSize: 50, Keyword: "bob", Status: "active"}, q)
}
