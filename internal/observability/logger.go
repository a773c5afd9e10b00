// Package observability provides logging, tracing, and metrics functionality
// for the broker framework.
package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cooplan/amqp-api/internal/config"
)

// NewLogger creates a new zap logger based on configuration.
// It starts from zap's production config for production/staging environments,
// or zap's development config otherwise; the output encoding (json or console)
// is then taken from cfg.LogFormat in either case.
func NewLogger(cfg *config.Env) (Logger, error) {
	var zapConfig zap.Config

	if cfg.Env == "production" || cfg.Env == "staging" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	switch cfg.LogFormat {
	case "json":
		zapConfig.Encoding = "json"
	case "console":
		zapConfig.Encoding = "console"
	}

	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	zl, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return NewZapLogger(zl), nil
}

// NewNopLoggerForTest creates a no-op Logger for testing.
func NewNopLoggerForTest() Logger {
	return NewZapLogger(zap.NewNop())
}
