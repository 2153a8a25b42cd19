package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, DatabaseMemory, cfg.Database.Type)
	assert.Equal(t, 2*time.Second, cfg.Worker.PollInterval)
	assert.Equal(t, 100, cfg.Worker.BatchSize)
	assert.Equal(t, "ddd-course.events", cfg.Redis.Stream)
	assert.True(t, cfg.Database.Retry.Enabled)
	assert.Equal(t, 200*time.Millisecond, cfg.Database.SlowThreshold)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
app:
  env: production
database:
  type: sqlite
  sqlite_path: /tmp/test.db
worker:
  batch_size: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("DDD_SERVER_PORT", "9090")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, DatabaseSQLite, cfg.Database.Type)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, 10, cfg.Worker.BatchSize)
	assert.Equal(t, "9090", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	cfg.Database.Type = "mongo"
	assert.Error(t, cfg.Validate())

	cfg.Database.Type = DatabaseMySQL
	cfg.Database.SlowThreshold = -time.Second
	assert.Error(t, cfg.Validate())

	cfg.Database.SlowThreshold = 0
	cfg.Redis.Enabled = true
	cfg.Redis.Stream = ""
	assert.Error(t, cfg.Validate())
}
