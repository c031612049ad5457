package logger

import (
	"go.uber.org/zap"
)

// New builds the process-wide logger. Debug mode switches to the
// development config with human-readable output.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}
