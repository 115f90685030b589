package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the zap logger from the configured level and format.
func newLogger(level, format string) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("unknown log format %q (want console or json)", format)
	}

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}

// ecoLoggerAdapter adapts the zap logger to the eco.Logger interface so the
// core packages stay free of the logging dependency.
type ecoLoggerAdapter struct {
	logger *zap.SugaredLogger
}

func (a *ecoLoggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debugf(format, v...)
}

func (a *ecoLoggerAdapter) Infof(format string, v ...any) {
	a.logger.Infof(format, v...)
}

func (a *ecoLoggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warnf(format, v...)
}

func (a *ecoLoggerAdapter) Errorf(format string, v ...any) {
	a.logger.Errorf(format, v...)
}
