package session

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() domain.Session {
	return domain.Session{
		Token: "abc",
		User: &domain.UserProfile{
			ID:        1,
			Username:  "admin",
			Role:      domain.RoleAdmin,
			Balance:   decimal.RequireFromString("1024.5"),
			Status:    domain.StatusActive,
			CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC),
		},
	}
}

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   NewFileStore(filepath.Join(t.TempDir(), "nested", "session.json")),
	}
}

func TestStore_RoundTrip(t *testing.T) {
	newUser := func(balance decimal.Decimal) domain.Session {
		return domain.Session{
			Token: "abc",
			User: &domain.UserProfile{
				ID:       2,
				Username: "newuser",
				Role:     domain.RoleUser,
				Status:   domain.StatusActive,
				Balance:  balance,
			},
		}
	}

	sessions := []struct {
		name    string
		session domain.Session
	}{
		{name: "full profile", session: testSession()},
		{name: "unset balance", session: newUser(decimal.Decimal{})},
		{name: "zero balance", session: newUser(decimal.Zero)},
		{name: "trailing zeros", session: newUser(decimal.RequireFromString("10.00"))},
		{name: "token only", session: domain.Session{Token: "abc"}},
	}

	for name, store := range stores(t) {
		for _, tt := range sessions {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				ctx := context.Background()
				require.NoError(t, store.Clear(ctx))

				empty, err := store.Load(ctx)
				require.NoError(t, err)
				assert.False(t, empty.Authenticated())
				assert.Nil(t, empty.User)

				require.NoError(t, store.Save(ctx, tt.session))

				loaded, err := store.Load(ctx)
				require.NoError(t, err)
				assert.True(t, tt.session.Equal(loaded), "saved %+v, loaded %+v", tt.session.User, loaded.User)
			})
		}
	}
}

func TestStore_Clear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, testSession()))

			require.NoError(t, store.Clear(ctx))
			require.NoError(t, store.Clear(ctx))

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, domain.Session{}, loaded)
		})
	}
}

func TestStore_UserWithoutTokenIsNotTrusted(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, testSession()))

			require.NoError(t, store.Save(ctx, domain.Session{User: testSession().User}))

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, domain.Session{}, loaded)
		})
	}
}

func TestStore_ConcurrentClear(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Save(ctx, testSession()))

			var wg sync.WaitGroup
			for i := 0; i < 8; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					assert.NoError(t, store.Clear(ctx))
				}()
			}
			wg.Wait()

			loaded, err := store.Load(ctx)
			require.NoError(t, err)
			assert.False(t, loaded.Authenticated())
		})
	}
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, testSession()))

	loaded, _ := store.Load(ctx)
	loaded.User.Username = "mutated"

	again, _ := store.Load(ctx)
	assert.Equal(t, "admin", again.User.Username)
}

func TestFileStore_Layout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := NewFileStore(path)
	require.NoError(t, store.Save(context.Background(), testSession()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"token":"abc"`)
	assert.Contains(t, string(raw), `"userInfo":`)
}

func TestFileStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	loaded, err := NewFileStore(path).Load(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.Session{}, loaded)
}

func TestDecodeEntries(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		user     string
		expected domain.Session
	}{
		{name: "No token", token: "", user: `{"id":1}`, expected: domain.Session{}},
		{name: "Token only", token: "abc", expected: domain.Session{Token: "abc"}},
		{name: "Broken profile", token: "abc", user: "{", expected: domain.Session{Token: "abc"}},
		{
			name:     "Token and profile",
			token:    "abc",
			user:     `{"id":7,"username":"agent007","role":"agent"}`,
			expected: domain.Session{Token: "abc", User: &domain.UserProfile{ID: 7, Username: "agent007", Role: domain.RoleAgent}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeEntries(tt.token, tt.user)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}
}
