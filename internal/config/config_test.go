package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mysql", cfg.DBDriver)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
	assert.Equal(t, ":8080", cfg.ServerAddr)
	assert.False(t, cfg.IsProduction())
	assert.True(t, cfg.MessageEvents)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("GIN_MODE", "release")
	t.Setenv("MESSAGE_EVENTS", "false")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr())
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.MessageEvents)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("DB_NAME: hr_test\nSTORAGE_DRIVER: s3\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "hr_test", cfg.DBName)
	assert.Equal(t, "s3", cfg.StorageDriver)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
