package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"PORT", "STORAGE_DRIVER", "SEARCH_DEBOUNCE", "TOKEN_CHECK_INTERVAL", "TOKEN_REFRESH_THRESHOLD", "CORS_ALLOW_ORIGINS", "RABBITMQ_URL"} {
		t.Setenv(k, "")
	}

	cfg := Load()

	require.Equal(t, "8090", cfg.Port)
	require.Equal(t, "sqlite", cfg.StorageDriver)
	require.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	require.Equal(t, time.Minute, cfg.TokenCheckInterval)
	require.Equal(t, 2*time.Minute, cfg.TokenRefreshThreshold)
	require.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowOrigins)
	require.Empty(t, cfg.RabbitMQURL)
	require.True(t, cfg.RunMigrations)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE_DRIVER", "Postgres")
	t.Setenv("SEARCH_DEBOUNCE", "150ms")
	t.Setenv("SEARCH_LIMIT_TESTS", "8")
	t.Setenv("UPSTREAM_TIMEOUT", "not-a-duration")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("CORS_ALLOW_ORIGINS", "http://a.local, ,http://b.local")

	cfg := Load()

	require.Equal(t, "postgres", cfg.StorageDriver)
	require.Equal(t, 150*time.Millisecond, cfg.SearchDebounce)
	require.Equal(t, 8, cfg.SearchLimitTests)
	require.Equal(t, 10*time.Second, cfg.UpstreamTimeout)
	require.False(t, cfg.RunMigrations)
	require.Equal(t, []string{"http://a.local", "http://b.local"}, cfg.CORSAllowOrigins)
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BACKEND_URL=http://api.lab.local\nPORT=9999\n"), 0o600))
	t.Setenv("PORT", "7000")
	t.Setenv("BACKEND_URL", "")
	os.Unsetenv("BACKEND_URL")

	cfg := Load()

	require.Equal(t, "http://api.lab.local", cfg.BackendURL)
	require.Equal(t, "7000", cfg.Port)
}
