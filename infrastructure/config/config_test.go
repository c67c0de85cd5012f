package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultConfig(t *testing.T) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig(t)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "playwright", cfg.Browser.Driver)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 3*time.Second, cfg.Browser.ProbeTimeout)
	assert.Equal(t, 9515, cfg.Browser.Selenium.Port)
	assert.Equal(t, 5*time.Minute, cfg.Engine.RunTimeout)
	assert.Equal(t, 2, cfg.Engine.MaxConcurrentRuns)
	assert.Equal(t, "file", cfg.Storage.Driver)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Auth.Tokens)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown browser driver", func(c *Config) { c.Browser.Driver = "lynx" }, "browser.driver"},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = "postgres" }, "storage.dsn"},
		{"file without data dir", func(c *Config) { c.Storage.DataDir = "" }, "storage.data_dir"},
		{"unknown storage driver", func(c *Config) { c.Storage.Driver = "redis" }, "storage.driver"},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"no concurrency", func(c *Config) { c.Engine.MaxConcurrentRuns = 0 }, "max_concurrent_runs"},
		{"zero run timeout", func(c *Config) { c.Engine.RunTimeout = 0 }, "timeouts"},
		{"token without user", func(c *Config) { c.Auth.Tokens = []TokenConfig{{Token: "t"}} }, "auth.tokens[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "formpilot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  addr: ":9090"
auth:
  tokens:
    - token: Tok-ABC
      user_id: user-1
engine:
  run_timeout: 2m
targets:
  demo:
    entry_url: http://localhost:4000/apply
`), 0644))

	t.Setenv("FORMPILOT_BROWSER_HEADLESS", "false")
	t.Setenv("FORMPILOT_ENGINE_MAX_CONCURRENT_RUNS", "4")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, map[string]string{"Tok-ABC": "user-1"}, cfg.Auth.Users())
	assert.Equal(t, 2*time.Minute, cfg.Engine.RunTimeout)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, 4, cfg.Engine.MaxConcurrentRuns)
	assert.Equal(t, "http://localhost:4000/apply", cfg.Targets["demo"].EntryURL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
