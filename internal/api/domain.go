package api

import (
	"time"

	"github.com/techforall-fr/202510-ClashReporter/internal/aps"
	"github.com/techforall-fr/202510-ClashReporter/internal/captures"
	"github.com/techforall-fr/202510-ClashReporter/internal/clashes"
	"github.com/techforall-fr/202510-ClashReporter/internal/problems"
	"github.com/techforall-fr/202510-ClashReporter/pkg/lifecycle"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Clashes  clashes.System
	Problems problems.System
	Captures captures.System
	Auth     *aps.Handler
}

// NewDomain creates all domain systems from the API runtime. Without complete
// upstream credentials (or with use_mock set) the clash repository serves
// synthetic data and the viewer token endpoint reports 503.
func NewDomain(runtime *Runtime) *Domain {
	var (
		source                  clashes.Source
		apiTokens, viewerTokens *aps.TokenSource
	)

	if runtime.APS.MockMode() {
		runtime.Logger.Info("upstream not configured, serving synthetic clashes", "mock_count", runtime.Clashes.MockCount)
	} else {
		apiTokens = aps.NewTokenSource(runtime.APS, nil, runtime.APS.Scopes)
		viewerTokens = aps.NewTokenSource(runtime.APS, nil, runtime.APS.ViewerScopes)

		joiner := clashes.NewJoiner(runtime.APS.ProjectID)
		joiner.Thresholds = runtime.Clashes.Thresholds

		client := aps.NewClient(runtime.APS, apiTokens, runtime.Logger)
		source = aps.NewSource(client, joiner, runtime.Logger)
	}

	clashSystem := clashes.New(
		source,
		nil,
		runtime.Clashes.MockCount,
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Clashes:  clashSystem,
		Problems: problems.New(problems.Seed(time.Now()), runtime.Logger, runtime.Pagination),
		Captures: captures.New(runtime.Storage, runtime.MaxCaptureSize, runtime.Logger),
		Auth:     aps.NewHandler(apiTokens, viewerTokens, clashSystem, runtime.Logger),
	}
}

// Start warms the clash cache during startup and reports it as a readiness check.
func (d *Domain) Start(lc *lifecycle.Coordinator) {
	lc.AddCheck("clash_cache", lifecycle.CheckFunc(func() bool {
		return !d.Clashes.Info().RefreshedAt.IsZero()
	}))

	lc.OnStartup(func() {
		_, _ = d.Clashes.GetAll(lc.Context(), false)
	})
}
