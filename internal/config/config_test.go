package config

import (
	"flag"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func resetFlagsAndArgs() {
	flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	os.Args = []string{"cmd"}
}

func setEnv(t *testing.T) {
	t.Setenv("RUN_ADDRESS", "localhost:9000")
	t.Setenv("API_BASE_URL", "localhost:9001/api")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("LOG_LVL", "debug")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REFRESH_INTERVAL", "30s")
}

func TestNew(t *testing.T) {
	resetFlagsAndArgs()
	setEnv(t)
	os.Args = []string{
		"cmd",
		"-a", "localhost:8080",
		"-b", "https://api.example.com/v1/",
		"-t", "5s",
		"-l", "error",
		"-s", "redis",
		"-r", "cache:6379",
	}
	cfg := New()

	assert.Equal(t, "localhost:8080", cfg.Address)
	assert.Equal(t, "https://api.example.com/v1", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, "error", cfg.LogLvl)
	assert.Equal(t, "redis", cfg.StoreDriver)
	assert.Equal(t, "cache:6379", cfg.RedisAddress)
	assert.Equal(t, 30*time.Second, cfg.RefreshInterval)
}

func TestAPIBaseURLDefaultProtocol(t *testing.T) {
	resetFlagsAndArgs()
	setEnv(t)

	t.Setenv("API_BASE_URL", "localhost:8083/api")

	cfg := New()

	assert.Equal(t, "http://localhost:8083/api", cfg.APIBaseURL)
	assert.Equal(t, "localhost:9000", cfg.Address)
	assert.Equal(t, "/login", cfg.LoginPath)
	assert.Equal(t, "/dashboard", cfg.DefaultPath)
}

func TestNewMock(t *testing.T) {
	resetFlagsAndArgs()
	t.Setenv("MOCK_ADDRESS", "localhost:9100")
	t.Setenv("JWT_TOKEN_TTL", "10m")

	cfg := NewMock()

	assert.Equal(t, "localhost:9100", cfg.Address)
	assert.Equal(t, 10*time.Minute, cfg.TokenTTL)
	assert.Equal(t, "console-dev-secret", cfg.JWTSecret)
}
