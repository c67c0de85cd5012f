package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. FORMPILOT_SERVER_ADDR.
const EnvPrefix = "FORMPILOT"

type Config struct {
	Server    ServerConfig            `mapstructure:"server"`
	Auth      AuthConfig              `mapstructure:"auth"`
	Browser   BrowserConfig           `mapstructure:"browser"`
	Engine    EngineConfig            `mapstructure:"engine"`
	Storage   StorageConfig           `mapstructure:"storage"`
	Artifacts ArtifactsConfig         `mapstructure:"artifacts"`
	Logging   LoggingConfig           `mapstructure:"logging"`
	Sites     SitesConfig             `mapstructure:"sites"`
	Targets   map[string]TargetConfig `mapstructure:"targets"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// AuthConfig lists the bearer tokens accepted by the HTTP API. Tokens are a
// list rather than a map because viper lowercases map keys.
type AuthConfig struct {
	Tokens []TokenConfig `mapstructure:"tokens"`
}

type TokenConfig struct {
	Token  string `mapstructure:"token"`
	UserID string `mapstructure:"user_id"`
}

// Users returns the token to user id table.
func (a AuthConfig) Users() map[string]string {
	users := make(map[string]string, len(a.Tokens))
	for _, t := range a.Tokens {
		users[t.Token] = t.UserID
	}
	return users
}

type BrowserConfig struct {
	// Driver is "playwright" or "selenium".
	Driver            string         `mapstructure:"driver"`
	Headless          bool           `mapstructure:"headless"`
	SlowMo            time.Duration  `mapstructure:"slow_mo"`
	UserAgent         string         `mapstructure:"user_agent"`
	IgnoreHTTPSErrors bool           `mapstructure:"ignore_https_errors"`
	ViewportWidth     int            `mapstructure:"viewport_width"`
	ViewportHeight    int            `mapstructure:"viewport_height"`
	ProbeTimeout      time.Duration  `mapstructure:"probe_timeout"`
	ActionTimeout     time.Duration  `mapstructure:"action_timeout"`
	Selenium          SeleniumConfig `mapstructure:"selenium"`
}

type SeleniumConfig struct {
	DriverPath   string `mapstructure:"driver_path"`
	ChromeBinary string `mapstructure:"chrome_binary"`
	Port         int    `mapstructure:"port"`
}

type EngineConfig struct {
	RunTimeout         time.Duration `mapstructure:"run_timeout"`
	NavigationTimeout  time.Duration `mapstructure:"navigation_timeout"`
	IdleTimeout        time.Duration `mapstructure:"idle_timeout"`
	LoginSettleTimeout time.Duration `mapstructure:"login_settle_timeout"`
	MaxConcurrentRuns  int           `mapstructure:"max_concurrent_runs"`
}

type StorageConfig struct {
	// Driver is "file" or "postgres".
	Driver  string `mapstructure:"driver"`
	DataDir string `mapstructure:"data_dir"`
	DSN     string `mapstructure:"dsn"`
}

type ArtifactsConfig struct {
	Dir string `mapstructure:"dir"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// SitesConfig points at an optional YAML file of additional site profiles.
type SitesConfig struct {
	File string `mapstructure:"file"`
}

// TargetConfig overrides the URLs of a built-in target.
type TargetConfig struct {
	EntryURL string `mapstructure:"entry_url"`
	LoginURL string `mapstructure:"login_url"`
}

// SetDefaults registers every default so environment overrides can bind to them.
func SetDefaults(v *viper.Viper) {
	// -- Server --
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "5m")
	v.SetDefault("server.shutdown_timeout", "30s")
	v.SetDefault("server.cors_origins", []string{"*"})

	// -- Browser --
	v.SetDefault("browser.driver", "playwright")
	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.slow_mo", "0s")
	v.SetDefault("browser.user_agent", "")
	v.SetDefault("browser.ignore_https_errors", false)
	v.SetDefault("browser.viewport_width", 1280)
	v.SetDefault("browser.viewport_height", 900)
	v.SetDefault("browser.probe_timeout", "3s")
	v.SetDefault("browser.action_timeout", "10s")
	v.SetDefault("browser.selenium.driver_path", "")
	v.SetDefault("browser.selenium.chrome_binary", "")
	v.SetDefault("browser.selenium.port", 9515)

	// -- Engine --
	v.SetDefault("engine.run_timeout", "5m")
	v.SetDefault("engine.navigation_timeout", "45s")
	v.SetDefault("engine.idle_timeout", "15s")
	v.SetDefault("engine.login_settle_timeout", "15s")
	v.SetDefault("engine.max_concurrent_runs", 2)

	// -- Storage --
	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.data_dir", "./data")
	v.SetDefault("storage.dsn", "")

	// -- Artifacts --
	v.SetDefault("artifacts.dir", "./artifacts")

	// -- Logging --
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age", 30)
	v.SetDefault("logging.compress", true)

	// -- Sites --
	v.SetDefault("sites.file", "")
}

// Load reads .env, the optional config file at path and FORMPILOT_* overrides.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates v.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	switch c.Browser.Driver {
	case "playwright", "selenium":
	default:
		return fmt.Errorf("browser.driver must be playwright or selenium, got %q", c.Browser.Driver)
	}
	switch c.Storage.Driver {
	case "file":
		if c.Storage.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the file driver")
		}
	case "postgres":
		if c.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be file or postgres, got %q", c.Storage.Driver)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	for i, t := range c.Auth.Tokens {
		if t.Token == "" || t.UserID == "" {
			return fmt.Errorf("auth.tokens[%d] needs both token and user_id", i)
		}
	}
	if c.Engine.MaxConcurrentRuns <= 0 {
		return fmt.Errorf("engine.max_concurrent_runs must be a positive integer")
	}
	if c.Engine.RunTimeout <= 0 || c.Engine.NavigationTimeout <= 0 || c.Engine.IdleTimeout <= 0 {
		return fmt.Errorf("engine timeouts must be positive durations")
	}
	return nil
}
