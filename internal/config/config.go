// Package config loads the ClashReporter service configuration from a base
// config.toml, an optional per-environment overlay, and CLASHREPORTER_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/techforall-fr/202510-ClashReporter/internal/aps"
	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/pkg/storage"
	"github.com/techforall-fr/202510-ClashReporter/pkg/tracing"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvClashReporterEnv             = "CLASHREPORTER_ENV"
	EnvClashReporterLogLevel        = "CLASHREPORTER_LOG_LEVEL"
	EnvClashReporterShutdownTimeout = "CLASHREPORTER_SHUTDOWN_TIMEOUT"
	EnvClashReporterVersion         = "CLASHREPORTER_VERSION"
)

var logLevels = []string{"debug", "info", "warn", "error"}

var apsEnv = &aps.Env{
	ClientID:     "CLASHREPORTER_APS_CLIENT_ID",
	ClientSecret: "CLASHREPORTER_APS_CLIENT_SECRET",
	AccountID:    "CLASHREPORTER_APS_ACCOUNT_ID",
	ProjectID:    "CLASHREPORTER_APS_PROJECT_ID",
	ModelSetID:   "CLASHREPORTER_APS_MODEL_SET_ID",
	BaseURL:      "CLASHREPORTER_APS_BASE_URL",
	AuthURL:      "CLASHREPORTER_APS_AUTH_URL",
	Scopes:       "CLASHREPORTER_APS_SCOPES",
	Timeout:      "CLASHREPORTER_APS_TIMEOUT",
	RateLimit:    "CLASHREPORTER_APS_RATE_LIMIT",
	UseMock:      "CLASHREPORTER_USE_MOCK",
}

var clashesEnv = &clashes.ConfigEnv{
	HighThreshold:   "CLASHREPORTER_SEVERITY_HIGH",
	MediumThreshold: "CLASHREPORTER_SEVERITY_MEDIUM",
	MockCount:       "CLASHREPORTER_MOCK_COUNT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CLASHREPORTER_STORAGE_CONTAINER_NAME",
	ConnectionString: "CLASHREPORTER_STORAGE_CONNECTION_STRING",
}

var tracingEnv = &tracing.Env{
	Exporter:    "CLASHREPORTER_TRACING_EXPORTER",
	Endpoint:    "CLASHREPORTER_TRACING_ENDPOINT",
	Insecure:    "CLASHREPORTER_TRACING_INSECURE",
	SampleRatio: "CLASHREPORTER_TRACING_SAMPLE_RATIO",
	ServiceName: "CLASHREPORTER_TRACING_SERVICE_NAME",
}

// Config is the root configuration for the ClashReporter service.
type Config struct {
	Server          ServerConfig   `toml:"server"`
	API             APIConfig      `toml:"api"`
	APS             aps.Config     `toml:"aps"`
	Clashes         clashes.Config `toml:"clashes"`
	Storage         storage.Config `toml:"storage"`
	Tracing         tracing.Config `toml:"tracing"`
	LogLevel        string         `toml:"log_level"`
	ShutdownTimeout string         `toml:"shutdown_timeout"`
	Version         string         `toml:"version"`
}

// Env returns the CLASHREPORTER_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvClashReporterEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	return LoadFrom(BaseConfigFile)
}

// LoadFrom is Load with an explicit base file path. The overlay is resolved
// next to the base file.
func LoadFrom(base string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(base); err == nil {
		loaded, err := load(base)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(base); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.API.Merge(&overlay.API)
	c.APS.Merge(&overlay.APS)
	c.Clashes.Merge(&overlay.Clashes)
	c.Storage.Merge(&overlay.Storage)
	c.Tracing.Merge(&overlay.Tracing)
}

// Finalize applies defaults, environment overrides, and validation to the
// root config and every sub-config.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.APS.Finalize(apsEnv); err != nil {
		return fmt.Errorf("aps: %w", err)
	}
	if err := c.Clashes.Finalize(clashesEnv); err != nil {
		return fmt.Errorf("clashes: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.Tracing.Finalize(tracingEnv); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvClashReporterLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvClashReporterShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvClashReporterVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	c.LogLevel = strings.ToLower(c.LogLevel)
	if !slices.Contains(logLevels, c.LogLevel) {
		return fmt.Errorf("invalid log_level %q: must be one of %s", c.LogLevel, strings.Join(logLevels, ", "))
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath(base string) string {
	env := os.Getenv(EnvClashReporterEnv)
	if env == "" {
		return ""
	}

	path := filepath.Join(filepath.Dir(base), fmt.Sprintf(OverlayConfigPattern, env))
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}
