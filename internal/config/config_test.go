package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutEnvFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("API_PORT", "9090")
	t.Setenv("AMAP_API_KEY", "amap-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.Equal(t, "amap-key", cfg.Amap.APIKey)
	assert.Equal(t, "全国", cfg.Amap.City)
	assert.Equal(t, "1.4.15", cfg.Amap.Version)
	assert.Equal(t, 60, cfg.Maps.LoadAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.Maps.LoadInterval)
	assert.Equal(t, 15, cfg.Editor.DetailZoom)
	assert.Equal(t, 10*time.Minute, cfg.Cache.SearchCacheTTL)
}

func TestConnectionStrings(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "trips")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "trip_editor")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "host=db port=5432 user=trips password=secret dbname=trip_editor sslmode=disable", cfg.Database.DSN())
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr())
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
