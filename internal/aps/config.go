// Package aps integrates with the Autodesk Platform Services Model
// Coordination API: client-credential tokens, rate-limited resource
// requests, and the live clash source that joins downloaded test results.
package aps

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://developer.api.autodesk.com"
	DefaultAuthURL = "https://developer.api.autodesk.com/authentication/v2/token"
)

// Config holds APS credentials, endpoints and client tuning.
type Config struct {
	ClientID        string   `toml:"client_id"`
	ClientSecret    string   `toml:"client_secret"`
	AccountID       string   `toml:"account_id"`
	ProjectID       string   `toml:"project_id"`
	ModelSetID      string   `toml:"model_set_id"`
	BaseURL         string   `toml:"base_url"`
	AuthURL         string   `toml:"auth_url"`
	Scopes          []string `toml:"scopes"`
	ViewerScopes    []string `toml:"viewer_scopes"`
	Timeout         string   `toml:"timeout"`
	DownloadTimeout string   `toml:"download_timeout"`
	TokenSkew       string   `toml:"token_skew"`
	RateLimit       float64  `toml:"rate_limit"`
	RateBurst       int      `toml:"rate_burst"`
	MaxResourceSize int64    `toml:"max_resource_size"`
	UseMock         bool     `toml:"use_mock"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ClientID     string
	ClientSecret string
	AccountID    string
	ProjectID    string
	ModelSetID   string
	BaseURL      string
	AuthURL      string
	Scopes       string
	Timeout      string
	RateLimit    string
	UseMock      string
}

// HasCredentials reports whether every value needed for live access is set.
func (c *Config) HasCredentials() bool {
	return c.ClientID != "" &&
		c.ClientSecret != "" &&
		c.AccountID != "" &&
		c.ProjectID != "" &&
		c.ModelSetID != ""
}

// MockMode reports whether the service should serve synthetic clashes only.
func (c *Config) MockMode() bool {
	return c.UseMock || !c.HasCredentials()
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// DownloadTimeoutDuration returns DownloadTimeout as a time.Duration.
func (c *Config) DownloadTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.DownloadTimeout)
	return d
}

// TokenSkewDuration returns TokenSkew as a time.Duration.
func (c *Config) TokenSkewDuration() time.Duration {
	d, _ := time.ParseDuration(c.TokenSkew)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.ClientSecret != "" {
		c.ClientSecret = overlay.ClientSecret
	}
	if overlay.AccountID != "" {
		c.AccountID = overlay.AccountID
	}
	if overlay.ProjectID != "" {
		c.ProjectID = overlay.ProjectID
	}
	if overlay.ModelSetID != "" {
		c.ModelSetID = overlay.ModelSetID
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.AuthURL != "" {
		c.AuthURL = overlay.AuthURL
	}
	if len(overlay.Scopes) > 0 {
		c.Scopes = overlay.Scopes
	}
	if len(overlay.ViewerScopes) > 0 {
		c.ViewerScopes = overlay.ViewerScopes
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.DownloadTimeout != "" {
		c.DownloadTimeout = overlay.DownloadTimeout
	}
	if overlay.TokenSkew != "" {
		c.TokenSkew = overlay.TokenSkew
	}
	if overlay.RateLimit != 0 {
		c.RateLimit = overlay.RateLimit
	}
	if overlay.RateBurst != 0 {
		c.RateBurst = overlay.RateBurst
	}
	if overlay.MaxResourceSize != 0 {
		c.MaxResourceSize = overlay.MaxResourceSize
	}
	if overlay.UseMock {
		c.UseMock = true
	}
}

func (c *Config) loadDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.AuthURL == "" {
		c.AuthURL = DefaultAuthURL
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"data:read", "viewables:read"}
	}
	if len(c.ViewerScopes) == 0 {
		c.ViewerScopes = []string{"viewables:read"}
	}
	if c.Timeout == "" {
		c.Timeout = "100s"
	}
	if c.DownloadTimeout == "" {
		c.DownloadTimeout = "60s"
	}
	if c.TokenSkew == "" {
		c.TokenSkew = "60s"
	}
	if c.RateLimit == 0 {
		c.RateLimit = 10
	}
	if c.RateBurst == 0 {
		c.RateBurst = 5
	}
	if c.MaxResourceSize == 0 {
		c.MaxResourceSize = 256 * 1024 * 1024
	}
}

func (c *Config) loadEnv(env *Env) {
	setString := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	setString(env.ClientID, &c.ClientID)
	setString(env.ClientSecret, &c.ClientSecret)
	setString(env.AccountID, &c.AccountID)
	setString(env.ProjectID, &c.ProjectID)
	setString(env.ModelSetID, &c.ModelSetID)
	setString(env.BaseURL, &c.BaseURL)
	setString(env.AuthURL, &c.AuthURL)
	setString(env.Timeout, &c.Timeout)

	if env.Scopes != "" {
		if v := os.Getenv(env.Scopes); v != "" {
			c.Scopes = strings.Fields(strings.ReplaceAll(v, ",", " "))
		}
	}
	if env.RateLimit != "" {
		if v := os.Getenv(env.RateLimit); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.RateLimit = f
			}
		}
	}
	if env.UseMock != "" {
		if v := os.Getenv(env.UseMock); v != "" {
			if b, err := strconv.ParseBool(v); err == nil {
				c.UseMock = b
			}
		}
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.DownloadTimeout); err != nil {
		return fmt.Errorf("invalid download_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.TokenSkew); err != nil {
		return fmt.Errorf("invalid token_skew: %w", err)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("rate_limit must be positive")
	}
	if c.RateBurst < 1 {
		return fmt.Errorf("rate_burst must be positive")
	}
	if c.MaxResourceSize < 1 {
		return fmt.Errorf("max_resource_size must be positive")
	}
	return nil
}
