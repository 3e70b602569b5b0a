package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"JWT_SECRET", "DB_DSN", "DB_USER", "DB_PASS", "DB_HOST", "DB_PORT", "DB_NAME", "APP_ENV", "APP_PORT", "ACCESS_TOKEN_TTL_MIN", "CORS_ORIGINS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "JWT_SECRET")
	require.Contains(t, err.Error(), "DB_DSN")
	require.Contains(t, err.Error(), "DB_HOST")
}

func TestLoad_DefaultsAndParts(t *testing.T) {
	clearEnv(t)
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_PASS", "pw")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "eventrely")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.Env)
	require.True(t, cfg.IsDev())
	require.Equal(t, "8000", cfg.Port)
	require.Equal(t, 30*time.Minute, cfg.AccessTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTTL)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)

	mc, err := mysql.ParseDSN(cfg.DBDSN)
	require.NoError(t, err)
	require.Equal(t, "db:3306", mc.Addr)
	require.Equal(t, "eventrely", mc.DBName)
	require.True(t, mc.ParseTime)
	require.Equal(t, time.UTC, mc.Loc)
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("JWT_SECRET=from-file\nDB_DSN=u:p@tcp(h:3306)/d?parseTime=true\nACCESS_TOKEN_TTL_MIN=5\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.JWTSecret)
	require.Equal(t, 5*time.Minute, cfg.AccessTTL)
	require.Equal(t, "u:p@tcp(h:3306)/d?parseTime=true", cfg.DBDSN)
}

func TestRateLimitConfig_Normalized(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, RefillTokens: -1, RefillInterval: 0, TTL: time.Second}.normalized()
	require.Equal(t, 1, c.Capacity)
	require.Equal(t, 1, c.RefillTokens)
	require.Equal(t, time.Second, c.RefillInterval)
	require.Equal(t, 5*time.Second, c.TTL)
}

func TestLoadCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	t.Setenv("CACHE_TTL", "1m")
	c := LoadCacheConfig()
	require.True(t, c.Methods["GET"])
	require.True(t, c.Methods["HEAD"])
	require.False(t, c.Methods["POST"])
	require.Equal(t, time.Minute, c.TTL)
}
