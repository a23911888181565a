package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnv(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddress)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone)
	assert.Equal(t, 100, cfg.DefaultPageSize)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThreshold())
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := writeEnv(t, `SERVER_ADDRESS=127.0.0.1:9000
POSTGRES_CONN=postgres://user:pass@db:5432/licitaciones?sslmode=disable
POSTGRES_USERNAME=user
LOG_FORMAT=json
REQUEST_TIMEOUT=2s
DEFAULT_PAGE_SIZE=50
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.ServerAddress)
	assert.Equal(t, "postgres://user:pass@db:5432/licitaciones?sslmode=disable", cfg.PostgresConn)
	assert.Equal(t, "user", cfg.PostgresUser)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 2*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 50, cfg.DefaultPageSize)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := writeEnv(t, "SERVER_ADDRESS=127.0.0.1:9000\n")
	t.Setenv("SERVER_ADDRESS", "127.0.0.1:9100")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9100", cfg.ServerAddress)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := map[string]string{
		"page size too large": "DEFAULT_PAGE_SIZE=500\n",
		"unknown log format":  "LOG_FORMAT=xml\n",
		"unknown timezone":    "TIMEZONE=Mars/Olympus\n",
		"zero timeout":        "REQUEST_TIMEOUT=0s\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeEnv(t, content))
			assert.Error(t, err)
		})
	}
}
