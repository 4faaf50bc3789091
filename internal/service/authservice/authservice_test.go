package authservice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/internal/guard"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/GlebRadaev/proxyconsole/pkg/clients"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*Service, *MockRequester, *MockStore) {
	ctrl := gomock.NewController(t)
	api := NewMockRequester(ctrl)
	store := NewMockStore(ctrl)

	service := New(api, store)
	defer ctrl.Finish()
	return service, api, store
}

var admin = &domain.UserProfile{ID: 1, Username: "admin", Role: domain.RoleAdmin}

func TestLogin(t *testing.T) {
	service, api, store := NewMock(t)
	ctx := context.Background()

	loginCall := client.Post(loginPath, dto.LoginRequestDTO{Username: "admin", Password: "admin123"})
	loginCall.Anonymous = true

	tests := []struct {
		name          string
		username      string
		password      string
		prepareMock   func()
		expectedUser  *domain.UserProfile
		expectedError error
	}{
		{
			name:     "Successful login",
			username: "admin",
			password: "admin123",
			prepareMock: func() {
				api.EXPECT().Do(ctx, loginCall, gomock.Any()).DoAndReturn(func(_ context.Context, _ client.Request, out any) error {
					*out.(*dto.LoginResponseDTO) = dto.LoginResponseDTO{Token: "abc", User: admin}
					return nil
				})
				store.EXPECT().Save(ctx, domain.Session{Token: "abc", User: admin}).Return(nil)
			},
			expectedUser: admin,
		},
		{
			name:     "Rejected credentials",
			username: "admin",
			password: "admin123",
			prepareMock: func() {
				api.EXPECT().Do(ctx, loginCall, gomock.Any()).Return(&client.ApplicationError{Code: 1001, Message: "invalid credentials"})
			},
			expectedError: &client.ApplicationError{Code: 1001, Message: "invalid credentials"},
		},
		{
			name:     "Backend unreachable",
			username: "admin",
			password: "admin123",
			prepareMock: func() {
				api.EXPECT().Do(ctx, loginCall, gomock.Any()).Return(&client.NetworkError{Err: context.DeadlineExceeded})
			},
			expectedError: &client.NetworkError{Err: context.DeadlineExceeded},
		},
		{
			name:     "Response without token",
			username: "admin",
			password: "admin123",
			prepareMock: func() {
				api.EXPECT().Do(ctx, loginCall, gomock.Any()).DoAndReturn(func(_ context.Context, _ client.Request, out any) error {
					*out.(*dto.LoginResponseDTO) = dto.LoginResponseDTO{User: admin}
					return nil
				})
			},
			expectedError: &client.ApplicationError{Code: client.CodeMalformedData, Message: "login response is incomplete"},
		},
		{
			name:     "Session can't be saved",
			username: "admin",
			password: "admin123",
			prepareMock: func() {
				api.EXPECT().Do(ctx, loginCall, gomock.Any()).DoAndReturn(func(_ context.Context, _ client.Request, out any) error {
					*out.(*dto.LoginResponseDTO) = dto.LoginResponseDTO{Token: "abc", User: admin}
					return nil
				})
				store.EXPECT().Save(ctx, gomock.Any()).Return(errors.New("disk full"))
			},
			expectedError: errors.New("can't save session: disk full"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			user, err := service.Login(ctx, tt.username, tt.password)

			assert.Equal(t, tt.expectedUser, user)
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLogin_InvalidInputNeverCallsBackend(t *testing.T) {
	service, _, _ := NewMock(t)

	_, err := service.Login(context.Background(), "ad", "")

	assert.ErrorIs(t, err, validate.ErrInvalidInput)
}

func TestLogout(t *testing.T) {
	service, api, store := NewMock(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		prepareMock   func()
		expectedError bool
	}{
		{
			name: "Backend acknowledges",
			prepareMock: func() {
				api.EXPECT().Do(ctx, client.Post(logoutPath, nil), nil).Return(nil)
				store.EXPECT().Clear(gomock.Any()).Return(nil)
			},
		},
		{
			name: "Backend failure is not fatal",
			prepareMock: func() {
				api.EXPECT().Do(ctx, client.Post(logoutPath, nil), nil).Return(&client.NetworkError{Err: errors.New("refused")})
				store.EXPECT().Clear(gomock.Any()).Return(nil)
			},
		},
		{
			name: "Clear failure is reported",
			prepareMock: func() {
				api.EXPECT().Do(ctx, gomock.Any(), nil).Return(nil)
				store.EXPECT().Clear(gomock.Any()).Return(errors.New("read-only"))
			},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			err := service.Logout(ctx)
			assert.Equal(t, tt.expectedError, err != nil)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	service, api, store := NewMock(t)
	ctx := context.Background()

	fresh := &domain.UserProfile{ID: 1, Username: "admin", Role: domain.RoleAdmin, Nickname: "boss"}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedUser  *domain.UserProfile
		expectedError error
	}{
		{
			name: "Profile replaces cached one",
			prepareMock: func() {
				api.EXPECT().Do(ctx, client.Get(currentUserPath, nil), gomock.Any()).DoAndReturn(func(_ context.Context, _ client.Request, out any) error {
					*out.(*domain.UserProfile) = *fresh
					return nil
				})
				store.EXPECT().Load(ctx).Return(domain.Session{Token: "abc", User: admin}, nil)
				store.EXPECT().Save(ctx, domain.Session{Token: "abc", User: fresh}).Return(nil)
			},
			expectedUser: fresh,
		},
		{
			name: "Logged out while fetching",
			prepareMock: func() {
				api.EXPECT().Do(ctx, gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ client.Request, out any) error {
					*out.(*domain.UserProfile) = *fresh
					return nil
				})
				store.EXPECT().Load(ctx).Return(domain.Session{}, nil)
			},
			expectedUser: fresh,
		},
		{
			name: "Application error clears the session",
			prepareMock: func() {
				api.EXPECT().Do(ctx, gomock.Any(), gomock.Any()).Return(&client.ApplicationError{Code: 500, Message: "oops"})
				store.EXPECT().Clear(gomock.Any()).Return(nil)
			},
			expectedError: &client.ApplicationError{Code: 500, Message: "oops"},
		},
		{
			name: "Network error clears the session",
			prepareMock: func() {
				api.EXPECT().Do(ctx, gomock.Any(), gomock.Any()).Return(&client.NetworkError{Err: errors.New("refused")})
				store.EXPECT().Clear(gomock.Any()).Return(nil)
			},
			expectedError: &client.NetworkError{Err: errors.New("refused")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			user, err := service.CurrentUser(ctx)

			assert.Equal(t, tt.expectedUser, user)
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRefreshCurrentUser(t *testing.T) {
	service, api, store := NewMock(t)
	ctx := context.Background()

	fresh := &domain.UserProfile{ID: 1, Username: "admin", Role: domain.RoleAdmin, Nickname: "boss"}

	tests := []struct {
		name          string
		prepareMock   func()
		expectedUser  *domain.UserProfile
		expectedError error
	}{
		{
			name: "Profile replaces cached one",
			prepareMock: func() {
				api.EXPECT().Do(ctx, client.Get(currentUserPath, nil), gomock.Any()).DoAndReturn(func(_ context.Context, _ client.Request, out any) error {
					*out.(*domain.UserProfile) = *fresh
					return nil
				})
				store.EXPECT().Load(ctx).Return(domain.Session{Token: "abc", User: admin}, nil)
				store.EXPECT().Save(ctx, domain.Session{Token: "abc", User: fresh}).Return(nil)
			},
			expectedUser: fresh,
		},
		{
			name: "Network error keeps the session",
			prepareMock: func() {
				api.EXPECT().Do(ctx, gomock.Any(), gomock.Any()).Return(&client.NetworkError{Err: errors.New("refused")})
			},
			expectedError: &client.NetworkError{Err: errors.New("refused")},
		},
		{
			name: "Application error clears the session",
			prepareMock: func() {
				api.EXPECT().Do(ctx, gomock.Any(), gomock.Any()).Return(&client.ApplicationError{Code: 1003, Message: "account disabled"})
				store.EXPECT().Clear(gomock.Any()).Return(nil)
			},
			expectedError: &client.ApplicationError{Code: 1003, Message: "account disabled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			user, err := service.RefreshCurrentUser(ctx)

			assert.Equal(t, tt.expectedUser, user)
			if tt.expectedError != nil {
				assert.EqualError(t, err, tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	service, api, store := NewMock(t)
	ctx := context.Background()

	nickname := "boss"
	email := "admin@example.com"
	upd := dto.ProfileUpdateDTO{Nickname: &nickname, Email: &email}

	api.EXPECT().Do(ctx, client.Put(profilePath, upd), nil).Return(nil)
	store.EXPECT().Load(ctx).Return(domain.Session{Token: "abc", User: &domain.UserProfile{ID: 1, Username: "admin", Phone: "123"}}, nil)

	merged := &domain.UserProfile{ID: 1, Username: "admin", Nickname: "boss", Email: "admin@example.com", Phone: "123"}
	store.EXPECT().Save(ctx, domain.Session{Token: "abc", User: merged}).Return(nil)

	user, err := service.UpdateProfile(ctx, upd)

	require.NoError(t, err)
	assert.Equal(t, merged, user)
}

func TestUpdateProfile_RejectedKeepsCache(t *testing.T) {
	service, api, _ := NewMock(t)
	ctx := context.Background()

	phone := "555"
	api.EXPECT().Do(ctx, gomock.Any(), nil).Return(&client.ApplicationError{Code: 400, Message: "bad phone"})

	_, err := service.UpdateProfile(ctx, dto.ProfileUpdateDTO{Phone: &phone})

	_, ok := client.AsApplication(err)
	assert.True(t, ok)
}

func TestChangePassword(t *testing.T) {
	service, api, _ := NewMock(t)
	ctx := context.Background()

	api.EXPECT().Do(ctx, client.Post(passwordPath, dto.ChangePasswordDTO{OldPassword: "admin123", NewPassword: "admin456"}), nil).Return(nil)

	assert.NoError(t, service.ChangePassword(ctx, "admin123", "admin456"))
	assert.ErrorIs(t, service.ChangePassword(ctx, "admin123", "admin123"), validate.ErrInvalidInput)
	assert.ErrorIs(t, service.ChangePassword(ctx, "admin123", "short"), validate.ErrInvalidInput)
}

type wiring struct {
	service *Service
	store   *session.MemoryStore
	guard   *guard.Guard
}

func newWiring(t *testing.T, handler http.HandlerFunc) *wiring {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemoryStore()
	g := guard.New(store, guard.Options{LoginPath: "/login", DefaultPath: "/dashboard"})
	api := client.New(
		client.Options{BaseURL: srv.URL, Timeout: time.Second},
		clients.NewHTTPClient(time.Second),
		store,
		client.NewNormalizer(store, g, g.LoginPath()),
	)
	return &wiring{service: New(api, store), store: store, guard: g}
}

func TestLoginAgainstBackend(t *testing.T) {
	w := newWiring(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"code":0,"msg":"ok","data":{"token":"abc","user":{"id":1,"username":"admin","role":"admin"}}}`))
	})

	user, err := w.service.Login(context.Background(), "admin", "admin123")

	require.NoError(t, err)
	assert.Equal(t, "admin", user.Username)

	s, err := w.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", s.Token)
	require.NotNil(t, s.User)
	assert.Equal(t, "admin", s.User.Username)
	assert.Equal(t, domain.RoleAdmin, s.User.Role)
}

func TestFailedLoginKeepsPriorSession(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "Failure envelope",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"code":1001,"msg":"invalid credentials"}`))
			},
		},
		{
			name: "HTTP 401",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"code":401,"msg":"invalid credentials"}`))
			},
		},
		{
			name: "Garbage body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWiring(t, tt.handler)
			prior := domain.Session{Token: "old", User: &domain.UserProfile{ID: 2, Username: "agent1", Role: domain.RoleAgent}}
			require.NoError(t, w.store.Save(context.Background(), prior))

			_, err := w.service.Login(context.Background(), "admin", "wrongpass")

			require.Error(t, err)
			s, _ := w.store.Load(context.Background())
			assert.Equal(t, prior, s)
		})
	}
}

func TestCurrentUserUnauthorizedSignsOut(t *testing.T) {
	w := newWiring(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	require.NoError(t, w.store.Save(context.Background(), domain.Session{Token: "abc", User: admin}))

	_, err := w.service.CurrentUser(context.Background())

	assert.True(t, client.IsSessionExpired(err))
	s, _ := w.store.Load(context.Background())
	assert.False(t, s.Authenticated())
	for _, route := range []string{"/dashboard", "/users", "/order/static"} {
		assert.Equal(t, guard.Decision{Redirect: "/login"}, w.guard.Check(context.Background(), route))
	}
}

func TestLogoutWhenBackendIsDown(t *testing.T) {
	w := newWiring(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	require.NoError(t, w.store.Save(context.Background(), domain.Session{Token: "abc", User: admin}))

	require.NoError(t, w.service.Logout(context.Background()))

	s, _ := w.store.Load(context.Background())
	assert.Equal(t, domain.Session{}, s)
}

func TestRefreshCurrentUserSurvivesDroppedConnection(t *testing.T) {
	var calls atomic.Int32
	w := newWiring(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			conn, _, err := w.(http.Hijacker).Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Write([]byte(`{"code":0,"msg":"ok","data":{"id":1,"username":"admin","role":"admin","nickname":"boss"}}`))
	})
	ctx := context.Background()
	require.NoError(t, w.store.Save(ctx, domain.Session{Token: "abc", User: admin}))

	_, err := w.service.RefreshCurrentUser(ctx)
	assert.True(t, client.IsNetwork(err))
	s, _ := w.store.Load(ctx)
	assert.Equal(t, "abc", s.Token)
	assert.Equal(t, guard.Decision{Allow: true}, w.guard.Check(ctx, "/dashboard"))

	user, err := w.service.RefreshCurrentUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "boss", user.Nickname)
	s, _ = w.store.Load(ctx)
	assert.Equal(t, "abc", s.Token)
	assert.Equal(t, "boss", s.User.Nickname)
}
