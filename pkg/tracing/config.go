package tracing

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterNone   = "none"
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

var exporters = []string{ExporterNone, ExporterStdout, ExporterOTLP}

// Config selects the span exporter and sampling for the tracer provider.
// The "none" exporter leaves the global no-op provider in place.
type Config struct {
	Exporter    string  `toml:"exporter"`
	Endpoint    string  `toml:"endpoint"`
	Insecure    bool    `toml:"insecure"`
	SampleRatio float64 `toml:"sample_ratio"`
	ServiceName string  `toml:"service_name"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Exporter    string
	Endpoint    string
	Insecure    string
	SampleRatio string
	ServiceName string
}

// Enabled reports whether spans are exported.
func (c *Config) Enabled() bool {
	return c.Exporter != ExporterNone
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Exporter != "" {
		c.Exporter = overlay.Exporter
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Insecure {
		c.Insecure = true
	}
	if overlay.SampleRatio != 0 {
		c.SampleRatio = overlay.SampleRatio
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
}

func (c *Config) loadDefaults() {
	if c.Exporter == "" {
		c.Exporter = ExporterNone
	}
	if c.SampleRatio == 0 {
		c.SampleRatio = 1
	}
	if c.ServiceName == "" {
		c.ServiceName = "clashreporter"
	}
}

func (c *Config) loadEnv(env *Env) error {
	if v := lookup(env.Exporter); v != "" {
		c.Exporter = v
	}
	if v := lookup(env.Endpoint); v != "" {
		c.Endpoint = v
	}
	if v := lookup(env.Insecure); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.Insecure, err)
		}
		c.Insecure = b
	}
	if v := lookup(env.SampleRatio); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", env.SampleRatio, err)
		}
		c.SampleRatio = f
	}
	if v := lookup(env.ServiceName); v != "" {
		c.ServiceName = v
	}
	return nil
}

func (c *Config) validate() error {
	c.Exporter = strings.ToLower(c.Exporter)
	if !slices.Contains(exporters, c.Exporter) {
		return fmt.Errorf("invalid exporter %q: must be one of %s", c.Exporter, strings.Join(exporters, ", "))
	}
	if c.Exporter == ExporterOTLP && c.Endpoint == "" {
		return fmt.Errorf("otlp exporter requires an endpoint")
	}
	if c.SampleRatio < 0 || c.SampleRatio > 1 {
		return fmt.Errorf("sample_ratio %v outside [0, 1]", c.SampleRatio)
	}
	return nil
}

func lookup(name string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(name))
}
