package session

import (
	"context"
	"sync"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
)

// Names of the two persisted entries.
const (
	TokenKey = "token"
	UserKey  = "userInfo"
)

// Store is the durable cache of the operator session. Save and Clear replace
// the whole value; readers never observe a token without its profile.
type Store interface {
	Load(ctx context.Context) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Clear(ctx context.Context) error
}

// Trusted drops the profile of a session without a token.
func Trusted(s domain.Session) domain.Session {
	if !s.Authenticated() {
		return domain.Session{}
	}
	return s
}

type MemoryStore struct {
	mu      sync.RWMutex
	session domain.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return clone(m.session), nil
}

func (m *MemoryStore) Save(_ context.Context, s domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = Trusted(clone(s))
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = domain.Session{}
	return nil
}

func clone(s domain.Session) domain.Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
