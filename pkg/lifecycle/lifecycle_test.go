package lifecycle_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
)

func TestStartupReadiness(t *testing.T) {
	lc := lifecycle.New()

	var warmed atomic.Bool
	lc.OnStartup(func() { warmed.Store(true) })
	assert.False(t, lc.Ready())

	lc.WaitForStartup()
	assert.True(t, warmed.Load())
	assert.True(t, lc.Ready())
}

func TestChecks(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	var cache atomic.Bool
	lc.AddCheck("clash_cache", lifecycle.CheckFunc(cache.Load))

	assert.Equal(t, map[string]bool{"startup": true, "clash_cache": false}, lc.Checks())
	assert.False(t, lc.Ready())

	cache.Store(true)
	assert.True(t, lc.Ready())
}

func TestShutdown(t *testing.T) {
	lc := lifecycle.New()
	lc.WaitForStartup()

	var closed atomic.Bool
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		closed.Store(true)
	})

	require.NoError(t, lc.Shutdown(time.Second))
	assert.True(t, closed.Load())
	assert.False(t, lc.Ready())
}

func TestShutdownTimeout(t *testing.T) {
	lc := lifecycle.New()
	release := make(chan struct{})
	lc.OnShutdown(func() { <-release })
	defer close(release)

	assert.Error(t, lc.Shutdown(20*time.Millisecond))
}
