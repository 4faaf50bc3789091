package authservice

import (
	"context"
	"fmt"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"go.uber.org/zap"
)

const (
	loginPath       = "auth/login"
	logoutPath      = "auth/logout"
	currentUserPath = "auth/current-user"
	profilePath     = "auth/profile"
	passwordPath    = "auth/password"
)

type Requester interface {
	Do(ctx context.Context, r client.Request, out any) error
}

type Store interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

type Service struct {
	api   Requester
	store Store
}

func New(api Requester, store Store) *Service {
	return &Service{
		api:   api,
		store: store,
	}
}

// Login exchanges credentials for a token and stores the new session. On any
// error the stored session is left as it was.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.UserProfile, error) {
	req := dto.LoginRequestDTO{Username: username, Password: password}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	call := client.Post(loginPath, req)
	call.Anonymous = true

	var resp dto.LoginResponseDTO
	if err := s.api.Do(ctx, call, &resp); err != nil {
		zap.L().Info("login rejected", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		zap.L().Error("login response without token or user", zap.String("username", username))
		return nil, &client.ApplicationError{Code: client.CodeMalformedData, Message: "login response is incomplete"}
	}

	if err := s.store.Save(ctx, domain.Session{Token: resp.Token, User: resp.User}); err != nil {
		zap.L().Error("can't save session: ", zap.Error(err))
		return nil, fmt.Errorf("can't save session: %w", err)
	}

	zap.L().Info("user successfully logged in", zap.String("username", resp.User.Username))
	return resp.User, nil
}

// Logout tells the backend about the logout if it can and always clears the
// local session.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.api.Do(ctx, client.Post(logoutPath, nil), nil); err != nil {
		zap.L().Warn("backend logout failed, clearing session anyway", zap.Error(err))
	}
	if err := s.store.Clear(context.WithoutCancel(ctx)); err != nil {
		zap.L().Error("can't clear session: ", zap.Error(err))
		return fmt.Errorf("can't clear session: %w", err)
	}
	return nil
}

// CurrentUser refetches the profile and replaces the cached one. Any failure
// clears the session: a profile that can't be read means the token can't be
// trusted.
func (s *Service) CurrentUser(ctx context.Context) (*domain.UserProfile, error) {
	return s.fetchCurrentUser(ctx, false)
}

// RefreshCurrentUser is CurrentUser for background polling. A transport
// failure leaves the session alone so the next tick can retry.
func (s *Service) RefreshCurrentUser(ctx context.Context) (*domain.UserProfile, error) {
	return s.fetchCurrentUser(ctx, true)
}

func (s *Service) fetchCurrentUser(ctx context.Context, keepOnNetworkError bool) (*domain.UserProfile, error) {
	var user domain.UserProfile
	if err := s.api.Do(ctx, client.Get(currentUserPath, nil), &user); err != nil {
		if keepOnNetworkError && client.IsNetwork(err) {
			zap.L().Warn("can't reach backend for current user, keeping session", zap.Error(err))
			return nil, err
		}
		zap.L().Warn("can't fetch current user, clearing session", zap.Error(err))
		if cerr := s.store.Clear(context.WithoutCancel(ctx)); cerr != nil {
			zap.L().Error("can't clear session: ", zap.Error(cerr))
		}
		return nil, err
	}

	current, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't load session: %w", err)
	}
	if !current.Authenticated() {
		// Logged out while the request was in flight.
		return &user, nil
	}
	if err := s.store.Save(ctx, domain.Session{Token: current.Token, User: &user}); err != nil {
		return nil, fmt.Errorf("can't save session: %w", err)
	}
	return &user, nil
}

func (s *Service) Session(ctx context.Context) (domain.Session, error) {
	return s.store.Load(ctx)
}

// UpdateProfile sends the changed fields and merges them into the cached
// profile once the backend accepted them.
func (s *Service) UpdateProfile(ctx context.Context, upd dto.ProfileUpdateDTO) (*domain.UserProfile, error) {
	if err := validate.Struct(upd); err != nil {
		return nil, err
	}
	if err := s.api.Do(ctx, client.Put(profilePath, upd), nil); err != nil {
		return nil, err
	}

	current, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't load session: %w", err)
	}
	if !current.Authenticated() || current.User == nil {
		return nil, client.ErrSessionExpired
	}

	user := *current.User
	if upd.Nickname != nil {
		user.Nickname = *upd.Nickname
	}
	if upd.Email != nil {
		user.Email = *upd.Email
	}
	if upd.Phone != nil {
		user.Phone = *upd.Phone
	}

	if err := s.store.Save(ctx, domain.Session{Token: current.Token, User: &user}); err != nil {
		return nil, fmt.Errorf("can't save session: %w", err)
	}
	return &user, nil
}

func (s *Service) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	req := dto.ChangePasswordDTO{OldPassword: oldPassword, NewPassword: newPassword}
	if err := validate.Struct(req); err != nil {
		return err
	}
	return s.api.Do(ctx, client.Post(passwordPath, req), nil)
}
