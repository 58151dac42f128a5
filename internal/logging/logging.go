// Package logging builds the zap logger. The TUI owns the terminal, so
// all diagnostics go to a rotating file instead of stdout.
package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/slopewatch/tui/internal/config"
)

// New creates a JSON file logger per the config. Errors creating the log
// directory fall back to a no-op logger; a dashboard that cannot log is
// still a working dashboard.
func New(cfg config.LogConfig) *zap.Logger {
	if cfg.File == "" {
		return zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return zap.NewNop()
	}

	maxSize := cfg.MaxSize
	if maxSize <= 0 {
		maxSize = 10
	}
	syncer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    maxSize,
		MaxBackups: 3,
		MaxAge:     7,
		LocalTime:  true,
	})

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), syncer, level(cfg.Level))
	return zap.New(core)
}

func level(s string) zapcore.Level {
	switch s {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
