package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "DB_DRIVER", "CACHE_TTL_SECONDS", "PUBLIC_KEY_PATH", "REDIS_ADDR", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := fromViper(newViper())

	assert.Equal(t, "32223", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 60*time.Second, cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.PublicKey)
	assert.Empty(t, cfg.RedisAddr)
}

func TestLegacyPostgresNames(t *testing.T) {
	t.Setenv("DB_USER", "")
	os.Unsetenv("DB_USER")
	t.Setenv("POSTGRES_USER", "ledger")
	t.Setenv("POSTGRES_DB", "fintrack")
	t.Setenv("DB_NAME", "override")

	cfg := fromViper(newViper())

	assert.Equal(t, "ledger", cfg.DBUser)
	assert.Equal(t, "override", cfg.DBName)
}

func TestOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("CACHE_TTL_SECONDS", "5")
	t.Setenv("IS_PROD", "true")

	cfg := fromViper(newViper())

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 5*time.Second, cfg.CacheTTL)
	assert.True(t, cfg.IsProd)
}

func TestPublicKeyFromFileOrValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, []byte("PEM-DATA"), 0o600))

	t.Setenv("PUBLIC_KEY_PATH", path)
	assert.Equal(t, "PEM-DATA", fromViper(newViper()).PublicKey)

	t.Setenv("PUBLIC_KEY_PATH", "inline-key")
	assert.Equal(t, "inline-key", fromViper(newViper()).PublicKey)
}
