// Package logging builds the zap loggers used outside the rules engine.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option adjusts the zap configuration before the logger is built.
type Option func(*zap.Config)

// WithOutput sends log entries to path instead of stderr.
func WithOutput(path string) Option {
	return func(cfg *zap.Config) {
		if path != "" {
			cfg.OutputPaths = []string{path}
		}
	}
}

// New returns a logger at the given level ("debug", "info", "warn", "error").
// Development loggers write human-readable console output; production loggers
// write JSON.
func New(level string, development bool, opts ...Option) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	// The terminal view owns stdout.
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	for _, opt := range opts {
		opt(&cfg)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
