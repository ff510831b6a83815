package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  serviceName: shop-test
  log:
    level: debug
database:
  driver: sqlite
engine:
  batchFetchSize: 10
  slowStatementThreshold: 50ms
`

func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o600))
	t.Chdir(dir)
}

func TestLoadWithEnv_ReadsYAML(t *testing.T) {
	writeConfig(t, testYAML)

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)
	assert.Equal(t, "shop-test", cfg.Env.ServiceName)
	assert.Equal(t, "debug", cfg.Env.Log.Level)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, 10, cfg.Engine.BatchFetchSize)
	assert.Equal(t, 50*time.Millisecond, cfg.Engine.SlowStatementThreshold)
}

func TestLoadWithEnv_EnvOverridesFile(t *testing.T) {
	writeConfig(t, testYAML)
	t.Setenv("ENGINE_BATCHFETCHSIZE", "25")
	t.Setenv("ENGINE_DETECTSTALE", "true")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Engine.BatchFetchSize)
	assert.True(t, cfg.Engine.DetectStale)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	cfg.Env.ServiceName = "shop"
	cfg.applyDefaults()

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, defaultSQLiteDSN, cfg.Database.SQLite.DSN)
	assert.Equal(t, "auto", cfg.Engine.FlushMode)
	assert.Equal(t, defaultSlowStatementThreshold, cfg.Engine.SlowStatementThreshold)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Env.ServiceName = "shop"
		cfg.applyDefaults()

		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "oracle" }},
		{name: "negative batch size", mutate: func(c *Config) { c.Engine.BatchFetchSize = -1 }},
		{name: "unknown flush mode", mutate: func(c *Config) { c.Engine.FlushMode = "never" }},
		{name: "unknown log level", mutate: func(c *Config) { c.Env.Log.Level = "verbose" }},
		{name: "missing service name", mutate: func(c *Config) { c.Env.ServiceName = "" }},
		{name: "postgres without section", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
