package settingsservice

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/GlebRadaev/proxyconsole/internal/client/clienttest"
	"github.com/GlebRadaev/proxyconsole/internal/domain"
	"github.com/GlebRadaev/proxyconsole/internal/dto"
	"github.com/GlebRadaev/proxyconsole/pkg/validate"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAndUpdate(t *testing.T) {
	var mu sync.Mutex
	stored := domain.Settings{
		SiteName:          "ProxyHub",
		MinRecharge:       decimal.RequireFromString("10"),
		DefaultAgentLimit: decimal.RequireFromString("500"),
	}

	r := chi.NewRouter()
	r.Get("/settings", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		clienttest.OK(w, stored)
	})
	r.Put("/settings", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		clienttest.Decode(t, r, &req)
		assert.NotContains(t, req, "site_name")

		mu.Lock()
		defer mu.Unlock()
		stored.Announcement = req["announcement"].(string)
		stored.AllowRegister = req["allow_register"].(bool)
		clienttest.OK(w, stored)
	})
	service := New(clienttest.New(t, r).Client)
	ctx := context.Background()

	got, err := service.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ProxyHub", got.SiteName)
	assert.Equal(t, "10.00", domain.FormatMoney(got.MinRecharge))

	announcement := "Maintenance on Sunday"
	allow := true
	got, err = service.Update(ctx, dto.UpdateSettingsDTO{Announcement: &announcement, AllowRegister: &allow})
	require.NoError(t, err)
	assert.Equal(t, announcement, got.Announcement)
	assert.True(t, got.AllowRegister)
}

func TestUpdate_Invalid(t *testing.T) {
	service := New(clienttest.New(t, http.NotFoundHandler()).Client)

	empty := ""
	_, err := service.Update(context.Background(), dto.UpdateSettingsDTO{SiteName: &empty})
	assert.ErrorIs(t, err, validate.ErrInvalidInput)

	negative := decimal.NewFromInt(-1)
	_, err = service.Update(context.Background(), dto.UpdateSettingsDTO{MinRecharge: &negative})
	assert.ErrorContains(t, err, "min recharge must not be negative")
}
