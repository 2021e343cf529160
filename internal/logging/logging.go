// Package logging builds the zap loggers used by the batch job and the lookup server.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level names accepted on the command line and in config files.
const (
	LevelDebug    = "DEBUG"
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

// Levels lists the accepted level names from most to least verbose.
var Levels = []string{LevelDebug, LevelInfo, LevelWarning, LevelError, LevelCritical}

// ParseLevel maps a level name (case-insensitive) to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case LevelDebug:
		return zapcore.DebugLevel, nil
	case LevelInfo, "":
		return zapcore.InfoLevel, nil
	case LevelWarning, "WARN":
		return zapcore.WarnLevel, nil
	case LevelError:
		return zapcore.ErrorLevel, nil
	case LevelCritical:
		return zapcore.DPanicLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q (expected one of %s)", name, strings.Join(Levels, ", "))
	}
}

// New returns a production zap logger writing JSON to stdout at the given level.
func New(level string) (*zap.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stdout"}
	cfg.EncoderConfig.TimeKey = "time"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger.Named("days_to_hire"), nil
}

// Country formats an optional country code as a zap field, using "global" for nil.
func Country(code *string) zap.Field {
	if code == nil {
		return zap.String("country_code", "global")
	}
	return zap.String("country_code", *code)
}
