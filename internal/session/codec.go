package session

import (
	"encoding/json"
	"fmt"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"go.uber.org/zap"
)

// EncodeEntries renders a session as the two persisted string entries.
func EncodeEntries(s domain.Session) (token, user string, err error) {
	return encodeEntries(s)
}

// DecodeEntries rebuilds a session from its persisted entries.
func DecodeEntries(token, user string) (domain.Session, error) {
	return decodeEntries(token, user)
}

func encodeEntries(s domain.Session) (string, string, error) {
	if s.User == nil {
		return s.Token, "", nil
	}
	raw, err := json.Marshal(s.User)
	if err != nil {
		return "", "", fmt.Errorf("can't encode user profile: %w", err)
	}
	return s.Token, string(raw), nil
}

func decodeEntries(token, user string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, nil
	}
	s := domain.Session{Token: token}
	if user == "" {
		return s, nil
	}
	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(user), &profile); err != nil {
		zap.L().Warn("cached user profile is unreadable, dropping it", zap.Error(err))
		return s, nil
	}
	s.User = &profile
	return s, nil
}
