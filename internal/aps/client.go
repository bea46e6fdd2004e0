package aps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/techforall-fr/202510-ClashReporter/pkg/metrics"
)

// Upstream status values that gate processing.
const (
	VersionSuccessful = "Successful"
	TestSuccess       = "Success"
)

// ModelSetVersion is the latest model set version summary.
type ModelSetVersion struct {
	Version int    `json:"version"`
	Status  string `json:"status"`
}

// ClashTest is one clash test run against a model set version.
type ClashTest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Resource is a downloadable result artifact of a clash test.
type Resource struct {
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Client talks to the Model Coordination endpoints. Every request waits on a
// shared rate limiter before it is sent.
type Client struct {
	baseURL    string
	projectID  string
	modelSetID string
	maxSize    int64

	api      *http.Client
	download *http.Client
	tokens   *TokenSource
	limiter  *rate.Limiter
	logger   *slog.Logger
}

// NewClient creates a Client for the project and model set in cfg.
func NewClient(cfg *Config, tokens *TokenSource, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		projectID:  cfg.ProjectID,
		modelSetID: cfg.ModelSetID,
		maxSize:    cfg.MaxResourceSize,
		api:        &http.Client{Timeout: cfg.TimeoutDuration()},
		download:   &http.Client{Timeout: cfg.DownloadTimeoutDuration()},
		tokens:     tokens,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		logger:     logger.With("client", "aps"),
	}
}

// ProjectID returns the project the client is bound to.
func (c *Client) ProjectID() string {
	return c.projectID
}

// LatestVersion returns the latest version of the configured model set.
func (c *Client) LatestVersion(ctx context.Context) (*ModelSetVersion, error) {
	path := fmt.Sprintf(
		"/bim360/modelset/v3/containers/%s/modelsets/%s/versions/latest",
		url.PathEscape(c.projectID), url.PathEscape(c.modelSetID),
	)

	var v ModelSetVersion
	if err := c.getJSON(ctx, "version", path, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// ClashTests lists the clash tests run against a model set version.
func (c *Client) ClashTests(ctx context.Context, version int) ([]ClashTest, error) {
	path := fmt.Sprintf(
		"/bim360/clash/v3/containers/%s/modelsets/%s/versions/%d/tests",
		url.PathEscape(c.projectID), url.PathEscape(c.modelSetID), version,
	)

	var body struct {
		Tests []ClashTest `json:"tests"`
	}
	if err := c.getJSON(ctx, "tests", path, &body); err != nil {
		return nil, err
	}
	return body.Tests, nil
}

// TestResources lists the result artifacts of a clash test.
func (c *Client) TestResources(ctx context.Context, testID string) ([]Resource, error) {
	path := fmt.Sprintf(
		"/bim360/clash/v3/containers/%s/tests/%s/resources",
		url.PathEscape(c.projectID), url.PathEscape(testID),
	)

	var body struct {
		Resources []Resource `json:"resources"`
	}
	if err := c.getJSON(ctx, "resources", path, &body); err != nil {
		return nil, err
	}
	return body.Resources, nil
}

// FetchResource downloads a result artifact. Resource URLs are pre-signed
// and are requested without the bearer token.
func (c *Client) FetchResource(ctx context.Context, resourceURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resourceURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build download request: %w", err)
	}

	resp, err := c.do(ctx, "download", c.download, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read resource: %w", err)
	}
	if int64(len(data)) > c.maxSize {
		return nil, ErrResourceTooLarge
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint, path string, v any) error {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	tok.SetAuthHeader(req)

	resp, err := c.do(ctx, endpoint, c.api, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// do sends req after the limiter admits it and records request metrics.
// Non-2xx responses are returned as *StatusError with the body closed.
func (c *Client) do(ctx context.Context, endpoint string, client *http.Client, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	start := time.Now()
	resp, err := client.Do(req)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Warn("upstream request failed",
			"endpoint", endpoint,
			"status", resp.StatusCode,
		)
		return nil, &StatusError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	return resp, nil
}
