// Package lifecycle coordinates startup hooks, shutdown hooks, and readiness
// for a long-running service.
package lifecycle

import (
	"context"
	"fmt"
	"maps"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker reports whether a subsystem is ready to serve traffic.
type ReadinessChecker interface {
	Ready() bool
}

// CheckFunc adapts a function to ReadinessChecker.
type CheckFunc func() bool

func (f CheckFunc) Ready() bool { return f() }

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx        context.Context
	cancel     context.CancelFunc
	startupWg  sync.WaitGroup
	shutdownWg sync.WaitGroup
	started    atomic.Bool

	checksMu sync.RWMutex
	checks   map[string]ReadinessChecker
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		checks: make(map[string]ReadinessChecker),
	}
}

// Context returns the coordinator's context, cancelled on shutdown.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a function to run concurrently during startup.
func (c *Coordinator) OnStartup(fn func()) {
	c.startupWg.Go(fn)
}

// OnShutdown registers a function to run concurrently during shutdown.
// Shutdown hooks should block on <-c.Context().Done() before executing cleanup.
func (c *Coordinator) OnShutdown(fn func()) {
	c.shutdownWg.Go(fn)
}

// AddCheck registers a named readiness check. A later check with the same
// name replaces the earlier one.
func (c *Coordinator) AddCheck(name string, check ReadinessChecker) {
	c.checksMu.Lock()
	defer c.checksMu.Unlock()
	c.checks[name] = check
}

// Checks evaluates every registered check, plus "startup" for the startup
// hooks, and returns the result by name.
func (c *Coordinator) Checks() map[string]bool {
	c.checksMu.RLock()
	checks := maps.Clone(c.checks)
	c.checksMu.RUnlock()

	result := make(map[string]bool, len(checks)+1)
	result["startup"] = c.started.Load()
	for name, check := range checks {
		result[name] = check.Ready()
	}
	return result
}

// Ready returns true once startup hooks have completed and every registered
// check passes, until shutdown begins.
func (c *Coordinator) Ready() bool {
	if c.ctx.Err() != nil {
		return false
	}
	for _, ok := range c.Checks() {
		if !ok {
			return false
		}
	}
	return true
}

// WaitForStartup blocks until all startup hooks have completed and marks
// startup as done.
func (c *Coordinator) WaitForStartup() {
	c.startupWg.Wait()
	c.started.Store(true)
}

// Shutdown cancels the context and waits for shutdown hooks to complete
// within the given timeout.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.cancel()

	done := make(chan struct{})
	go func() {
		c.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}
