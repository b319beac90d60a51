package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "localhost", cfg.Postgres.Host)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "dealdesk", cfg.Postgres.Name)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)

	assert.Equal(t, "localhost:6379", cfg.Redis.URI)
	assert.False(t, cfg.Redis.UseSentinel)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.HTTP.WriteTimeout)

	assert.Equal(t, "http://localhost:9090", cfg.Assistant.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Apply.LockTTL)

	assert.False(t, cfg.Observability.Metrics.IsEnabled())
}

func TestAppConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("REDIS_URI", "redis://cache.internal:6380")
	t.Setenv("HTTP_ADDR", ":9000")
	t.Setenv("ASSISTANT_BASE_URL", "https://assistant.internal")
	t.Setenv("TRACKER_POLL_INTERVAL", "2s")
	t.Setenv("APPLY_LOCK_TTL", "1m")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, "db.internal", cfg.Postgres.Host)
	assert.Equal(t, 6432, cfg.Postgres.Port)
	assert.Equal(t, "redis://cache.internal:6380", cfg.Redis.URI)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
	assert.Equal(t, "https://assistant.internal", cfg.Assistant.BaseURL)
	assert.Equal(t, 2*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, time.Minute, cfg.Apply.LockTTL)
}

func TestSanitize_Guardrails(t *testing.T) {
	cfg := AppConfig{}
	cfg.Tracker.PollInterval = -1 * time.Second
	cfg.Apply.LockTTL = 0
	cfg.HTTP.ReadTimeout = 0
	cfg.HTTP.WriteTimeout = -1

	cfg.Sanitize()

	assert.Equal(t, 5*time.Second, cfg.Tracker.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.Apply.LockTTL)
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, time.Duration(0), cfg.HTTP.WriteTimeout)
}

func TestSanitize_DevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
}

func TestMetricsConfig_DisabledWithoutAddress(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "   "}
	cfg.Sanitize()

	assert.False(t, cfg.IsEnabled())
}
