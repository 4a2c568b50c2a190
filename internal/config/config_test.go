package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, "server: {}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 30*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, "console_session", cfg.Auth.CookieName)
	assert.Equal(t, 30, cfg.Analytics.DefaultLookbackDays)
	assert.Equal(t, "day", cfg.Analytics.DefaultGroupBy)
}

func TestLoadExplicitValues(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  host: 0.0.0.0
backend:
  base_url: https://api.backend.example
  api_key: key-123
  timeout_seconds: 5
analytics:
  default_lookback_days: 7
  default_group_by: hour
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://api.backend.example", cfg.Backend.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Backend.Timeout())
	assert.Equal(t, 7, cfg.Analytics.DefaultLookbackDays)
	assert.Equal(t, "hour", cfg.Analytics.DefaultGroupBy)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
backend:
  base_url: https://config-file.example
  api_key: from-file
`)

	t.Setenv("BACKEND_BASE_URL", "https://env.example")
	t.Setenv("BACKEND_API_KEY", "from-env")
	t.Setenv("REDIS_ADDR", "redis.internal:6379")

	cfg, err := LoadFromEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example", cfg.Backend.BaseURL)
	assert.Equal(t, "from-env", cfg.Backend.APIKey)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr)
	assert.True(t, cfg.Redis.Enabled)
}
