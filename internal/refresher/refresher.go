package refresher

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/client"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"go.uber.org/zap"
)

type AuthService interface {
	Session(ctx context.Context) (domain.Session, error)
	RefreshCurrentUser(ctx context.Context) (*domain.UserProfile, error)
}

// Service keeps the cached operator profile, balance included, in step with
// the backend while someone is signed in.
type Service struct {
	auth           AuthService
	updateInterval time.Duration
	inFlight       atomic.Bool
}

func New(auth AuthService, interval time.Duration) *Service {
	return &Service{
		auth:           auth,
		updateInterval: interval,
	}
}

func (s *Service) Start(ctx context.Context) {
	if s.updateInterval <= 0 {
		zap.L().Info("Profile refresher disabled")
		return
	}
	zap.L().Info("Profile refresher started", zap.Duration("interval", s.updateInterval))
	go s.run(ctx)
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.updateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("Context canceled, stopping profile refresher")
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh refetches the current user once. It does nothing while signed out
// or while a previous refresh is still running, and reports whether the
// profile was refreshed.
func (s *Service) Refresh(ctx context.Context) bool {
	if !s.inFlight.CompareAndSwap(false, true) {
		zap.L().Debug("Previous profile refresh still running, skipping")
		return false
	}
	defer s.inFlight.Store(false)

	sess, err := s.auth.Session(ctx)
	if err != nil {
		zap.L().Error("Failed to read session", zap.Error(err))
		return false
	}
	if !sess.Authenticated() {
		return false
	}

	user, err := s.auth.RefreshCurrentUser(ctx)
	switch {
	case err == nil:
		zap.L().Debug("Profile refreshed",
			zap.String("username", user.Username),
			zap.String("balance", domain.FormatMoney(user.Balance)))
		return true
	case client.IsSessionExpired(err):
		zap.L().Info("Session expired, profile refresher is idle until next login")
	case client.IsNetwork(err):
		zap.L().Warn("Backend unreachable, keeping session until next refresh", zap.Error(err))
	default:
		zap.L().Warn("Profile refresh failed, session cleared", zap.Error(err))
	}
	return false
}
