package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/GlebRadaev/proxyconsole/internal/config"
	"github.com/GlebRadaev/proxyconsole/internal/session"
	"github.com/stretchr/testify/suite"
)

type ApplicationSuite struct {
	suite.Suite
	app *Application
}

func TestApplication(t *testing.T) {
	suite.Run(t, &ApplicationSuite{})
}

func (s *ApplicationSuite) SetupTest() {
	s.app = New()
}

func (s *ApplicationSuite) TestWait() {
	ctx, cancel := context.WithCancel(context.Background())

	s.app.errCh = make(chan error)
	go func() {
		s.app.errCh <- fmt.Errorf("mock error")
	}()

	err := s.app.Wait(ctx, cancel)

	s.Require().Error(err)
	s.Contains(err.Error(), "mock error")
}

func (s *ApplicationSuite) TestWait_NoErrors() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s.NoError(s.app.Wait(ctx, cancel))
}

func (s *ApplicationSuite) TestNewStore() {
	tests := []struct {
		name        string
		cfg         *config.Config
		expectedErr bool
		check       func(store session.Store)
	}{
		{
			name: "Memory store",
			cfg:  &config.Config{StoreDriver: StoreMemory},
			check: func(store session.Store) {
				s.IsType(&session.MemoryStore{}, store)
			},
		},
		{
			name: "File store",
			cfg:  &config.Config{StoreDriver: StoreFile, StorePath: filepath.Join(s.T().TempDir(), "session.json")},
			check: func(store session.Store) {
				s.IsType(&session.FileStore{}, store)
			},
		},
		{
			name:        "Postgres with a broken DSN",
			cfg:         &config.Config{StoreDriver: StorePostgres, Database: "://nowhere"},
			expectedErr: true,
		},
		{
			name:        "Redis that is not listening",
			cfg:         &config.Config{StoreDriver: StoreRedis, RedisAddress: "127.0.0.1:1"},
			expectedErr: true,
		},
		{
			name:        "Unknown driver",
			cfg:         &config.Config{StoreDriver: "etcd"},
			expectedErr: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			store, closer, err := newStore(context.Background(), tt.cfg)
			if tt.expectedErr {
				s.Error(err)
				s.Nil(store)
				return
			}
			s.Require().NoError(err)
			s.Require().NotNil(closer)
			defer closer()
			tt.check(store)
		})
	}
}
