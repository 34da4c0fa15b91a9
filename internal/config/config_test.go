package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docparse/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.Server.Port)
	assert.Equal(t, int64(100*1024*1024), cfg.Server.MaxContentLength)
	assert.True(t, cfg.Supervisor.Managed)
	assert.Equal(t, []string{"/usr/bin/java", "-jar", "jars/tika-server-standard-nlm-modified-2.4.1_v6.jar"}, cfg.Supervisor.LaunchArgs())
	assert.Equal(t, "http://localhost:9998/tika", cfg.Supervisor.HealthURL)
	assert.Equal(t, 3*time.Second, cfg.Supervisor.PollInterval)
	assert.Equal(t, 300, cfg.Fetch.TimeoutSecs)
	assert.Greater(t, cfg.Server.WriteTimeout, time.Duration(cfg.Engine.TimeoutSecs)*time.Second)
	assert.False(t, cfg.DB.Enabled)
	assert.False(t, cfg.Auth.Enabled())
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCPARSE_SERVER_MAX_CONTENT_LENGTH", "1024")
	t.Setenv("DOCPARSE_SUPERVISOR_POLL_INTERVAL", "250ms")
	t.Setenv("DOCPARSE_SUPERVISOR_MANAGED", "false")
	t.Setenv("DOCPARSE_ENGINE_URL", "http://tika:9998/")
	t.Setenv("DOCPARSE_AUTH_JWT_SECRET", "s3cret")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, int64(1024), cfg.Server.MaxContentLength)
	assert.Equal(t, 250*time.Millisecond, cfg.Supervisor.PollInterval)
	assert.False(t, cfg.Supervisor.Managed)
	assert.Equal(t, "http://tika:9998", cfg.Engine.URL)
	assert.True(t, cfg.Auth.Enabled())
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}

func TestLoad_ExplicitPortWinsOverPlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DOCPARSE_SERVER_PORT", ":7000")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7000", cfg.Server.Port)
}

func TestLoad_RejectsNonPositiveContentLength(t *testing.T) {
	t.Setenv("DOCPARSE_SERVER_MAX_CONTENT_LENGTH", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := config.DBConfig{User: "u", Password: "p", Host: "db", Port: 5432, Name: "n", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/n?sslmode=disable", cfg.DSN())
}
