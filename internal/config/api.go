package config

import (
	"fmt"
	"os"

	"github.com/techforall-fr/202510-ClashReporter/internal/captures"
	"github.com/techforall-fr/202510-ClashReporter/pkg/formatting"
	"github.com/techforall-fr/202510-ClashReporter/pkg/middleware"
	"github.com/techforall-fr/202510-ClashReporter/pkg/openapi"
	"github.com/techforall-fr/202510-ClashReporter/pkg/pagination"
)

const (
	EnvAPIBasePath       = "CLASHREPORTER_API_BASE_PATH"
	EnvAPIMaxCaptureSize = "CLASHREPORTER_API_MAX_CAPTURE_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CLASHREPORTER_CORS_ENABLED",
	Origins:          "CLASHREPORTER_CORS_ORIGINS",
	AllowedMethods:   "CLASHREPORTER_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CLASHREPORTER_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CLASHREPORTER_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CLASHREPORTER_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "CLASHREPORTER_OPENAPI_TITLE",
	Description: "CLASHREPORTER_OPENAPI_DESCRIPTION",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "CLASHREPORTER_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "CLASHREPORTER_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds API routing, CORS, pagination, and OpenAPI settings.
type APIConfig struct {
	BasePath       string                `toml:"base_path"`
	MaxCaptureSize string                `toml:"max_capture_size"`
	CORS           middleware.CORSConfig `toml:"cors"`
	Pagination     pagination.Config     `toml:"pagination"`
	OpenAPI        openapi.Config        `toml:"openapi"`
}

// MaxCaptureSizeBytes returns the decoded capture limit in bytes.
func (c *APIConfig) MaxCaptureSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxCaptureSize)
	if err != nil {
		return captures.DefaultMaxSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS and pagination configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.OpenAPI.Finalize(openAPIEnv); err != nil {
		return fmt.Errorf("openapi: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxCaptureSize != "" {
		c.MaxCaptureSize = overlay.MaxCaptureSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxCaptureSize == "" {
		c.MaxCaptureSize = "10MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxCaptureSize); v != "" {
		c.MaxCaptureSize = v
	}
}

func (c *APIConfig) validate() error {
	size, err := formatting.ParseBytes(c.MaxCaptureSize)
	if err != nil {
		return fmt.Errorf("invalid max_capture_size: %w", err)
	}
	if size < 1 {
		return fmt.Errorf("max_capture_size must be positive")
	}
	return nil
}
