package aps_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/internal/aps"
)

func TestTokenSourceCaches(t *testing.T) {
	u := newUpstream(t)
	cfg := u.config(t)
	ts := aps.NewTokenSource(cfg, u.srv.Client(), cfg.Scopes)
	ctx := context.Background()

	first, err := ts.Token(ctx)
	require.NoError(t, err)
	second, err := ts.Token(ctx)
	require.NoError(t, err)

	assert.Equal(t, "tok-1", first.AccessToken)
	assert.Equal(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(1), u.tokenCalls.Load())
}

func TestTokenSourceRefreshesWithinSkew(t *testing.T) {
	u := newUpstream(t)
	u.expiresIn = 30
	cfg := u.config(t)
	ts := aps.NewTokenSource(cfg, u.srv.Client(), cfg.Scopes)
	ctx := context.Background()

	first, err := ts.Token(ctx)
	require.NoError(t, err)
	second, err := ts.Token(ctx)
	require.NoError(t, err)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.Equal(t, int32(2), u.tokenCalls.Load())
}

func TestTokenSourceReset(t *testing.T) {
	u := newUpstream(t)
	cfg := u.config(t)
	ts := aps.NewTokenSource(cfg, u.srv.Client(), cfg.Scopes)
	ctx := context.Background()

	_, err := ts.Token(ctx)
	require.NoError(t, err)

	ts.Reset()

	tok, err := ts.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "tok-2", tok.AccessToken)
}

func TestTokenSourceScopes(t *testing.T) {
	u := newUpstream(t)
	cfg := u.config(t)
	ts := aps.NewTokenSource(cfg, u.srv.Client(), cfg.ViewerScopes)

	tok, err := ts.Token(context.Background())
	require.NoError(t, err)

	scope, _ := tok.Extra("scope").(string)
	assert.Equal(t, "viewables:read", strings.TrimSpace(scope))
}

func TestTokenSourceConcurrent(t *testing.T) {
	u := newUpstream(t)
	cfg := u.config(t)
	ts := aps.NewTokenSource(cfg, u.srv.Client(), cfg.Scopes)

	var wg sync.WaitGroup
	for range 8 {
		wg.Go(func() {
			_, err := ts.Token(context.Background())
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), u.tokenCalls.Load())
}
