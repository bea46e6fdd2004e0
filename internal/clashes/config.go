package clashes

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds clash ingestion settings.
type Config struct {
	Thresholds SeverityThresholds `toml:"severity_thresholds"`
	MockCount  int                `toml:"mock_count"`
}

// ConfigEnv maps environment variable names for clash configuration.
type ConfigEnv struct {
	HighThreshold   string
	MediumThreshold string
	MockCount       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *Config) Merge(overlay *Config) {
	if overlay.Thresholds.High != 0 {
		c.Thresholds.High = overlay.Thresholds.High
	}
	if overlay.Thresholds.Medium != 0 {
		c.Thresholds.Medium = overlay.Thresholds.Medium
	}
	if overlay.MockCount != 0 {
		c.MockCount = overlay.MockCount
	}
}

func (c *Config) loadDefaults() {
	defaults := DefaultThresholds()
	if c.Thresholds.High == 0 {
		c.Thresholds.High = defaults.High
	}
	if c.Thresholds.Medium == 0 {
		c.Thresholds.Medium = defaults.Medium
	}
	if c.MockCount == 0 {
		c.MockCount = DefaultMockCount
	}
}

func (c *Config) loadEnv(env *ConfigEnv) {
	if env.HighThreshold != "" {
		if v := os.Getenv(env.HighThreshold); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Thresholds.High = f
			}
		}
	}
	if env.MediumThreshold != "" {
		if v := os.Getenv(env.MediumThreshold); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Thresholds.Medium = f
			}
		}
	}
	if env.MockCount != "" {
		if v := os.Getenv(env.MockCount); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MockCount = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Thresholds.High <= 0 {
		return fmt.Errorf("severity_thresholds.high must be positive")
	}
	if c.Thresholds.Medium < c.Thresholds.High {
		return fmt.Errorf("severity_thresholds.medium cannot be below severity_thresholds.high")
	}
	if c.MockCount < 1 {
		return fmt.Errorf("mock_count must be positive")
	}
	return nil
}
