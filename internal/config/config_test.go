package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("STORE_DRIVER", "memory")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 500, cfg.Sync.MaxBatch)
	assert.Equal(t, 24*time.Hour, cfg.Auth.Expiration)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET_KEY=abc\nDB_HOST=db\nDB_NAME=loja\nSYNC_MAX_BATCH=50\nCORS_ALLOWED_ORIGINS=http://a, http://b\n"), 0o600))
	t.Cleanup(func() {
		for _, k := range []string{"JWT_SECRET_KEY", "DB_HOST", "DB_NAME", "SYNC_MAX_BATCH", "CORS_ALLOWED_ORIGINS"} {
			os.Unsetenv(k)
		}
	})
	t.Setenv("DATABASE_URL", "")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres://postgres:postgres@db:5432/loja?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 50, cfg.Sync.MaxBatch)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.Server.AllowedOrigins)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("STORE_DRIVER", "memory")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadDevice(t *testing.T) {
	t.Setenv("PDV_DEVICE_ID", "caixa-2")
	t.Setenv("PDV_SYNC_INTERVAL", "1m")
	t.Setenv("PDV_RETRIES", "5")

	cfg, err := LoadDevice(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "caixa-2", cfg.DeviceID)
	assert.Equal(t, time.Minute, cfg.SyncInterval)
	assert.Equal(t, 5, cfg.Retries)
	assert.Equal(t, "http://localhost:8080", cfg.APIURL)
	assert.Equal(t, 500, cfg.MaxBatch)
	assert.Empty(t, cfg.ShopTokens)
}

func TestLoadDevice_ShopTokensAndMaxBatch(t *testing.T) {
	t.Setenv("PDV_DEVICE_ID", "caixa-1")
	t.Setenv("PDV_SHOP_TOKENS", "loja-1=tok-a, loja-2=tok-b")
	t.Setenv("PDV_MAX_BATCH", "50")

	cfg, err := LoadDevice(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"loja-1": "tok-a", "loja-2": "tok-b"}, cfg.ShopTokens)
	assert.Equal(t, 50, cfg.MaxBatch)
}

func TestLoadDevice_MalformedShopTokens(t *testing.T) {
	t.Setenv("PDV_DEVICE_ID", "caixa-1")

	for _, value := range []string{"loja-1", "loja-1=", "=tok"} {
		t.Setenv("PDV_SHOP_TOKENS", value)
		_, err := LoadDevice(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "PDV_SHOP_TOKENS", value)
	}
}

func TestDeviceConfig_Validate(t *testing.T) {
	valid := DeviceConfig{APIURL: "http://x", QueuePath: "q.db", DeviceID: "d", MaxBatch: 10, BackoffBase: time.Second, BackoffMax: 5 * time.Second}
	assert.NoError(t, valid.Validate())

	bad := valid
	bad.BackoffMax = time.Millisecond
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Retries = -1
	assert.Error(t, bad.Validate())

	bad = valid
	bad.MaxBatch = 0
	assert.Error(t, bad.Validate())
}
