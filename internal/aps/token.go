package aps

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// TokenSource obtains and caches two-legged access tokens. A cached token
// is reused until it is within skew of expiring. Safe for concurrent use.
type TokenSource struct {
	cfg    clientcredentials.Config
	client *http.Client
	skew   time.Duration
	now    func() time.Time

	mu      sync.Mutex
	current *oauth2.Token
}

// NewTokenSource creates a TokenSource requesting scopes from cfg.AuthURL.
func NewTokenSource(cfg *Config, client *http.Client, scopes []string) *TokenSource {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TokenSource{
		cfg: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.AuthURL,
			Scopes:       scopes,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		client: client,
		skew:   cfg.TokenSkewDuration(),
		now:    time.Now,
	}
}

// Token returns a valid access token, requesting a new one when the cached
// token is missing or about to expire.
func (s *TokenSource) Token(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid() {
		return s.current, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	tok, err := s.cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuth, err)
	}

	s.current = tok
	return tok, nil
}

// Reset drops the cached token so the next call authenticates again.
func (s *TokenSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
}

func (s *TokenSource) valid() bool {
	if s.current == nil || s.current.AccessToken == "" {
		return false
	}
	if s.current.Expiry.IsZero() {
		return true
	}
	return s.now().Add(s.skew).Before(s.current.Expiry)
}
