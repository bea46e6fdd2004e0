package infrastructure

import (
	"fmt"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/exp/zapslog"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds a zap logger and exposes it through slog. The "local"
// environment gets the console development encoder; every other environment
// gets production JSON.
func NewLogger(level, env string) (*slog.Logger, *zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if env == "local" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	z, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}

	handler := zapslog.NewHandler(z.Core(), zapslog.WithName("clashreporter"))
	return slog.New(handler), z, nil
}
