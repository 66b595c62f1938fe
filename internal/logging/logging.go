// Package logging builds the zap loggers used by the commands.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger on stderr at info level, or a console logger
// at debug level when verbose is set.
func New(verbose bool) *zap.Logger {
	if verbose {
		return NewWithWriter(os.Stderr, zapcore.DebugLevel, false)
	}
	return NewWithWriter(os.Stderr, zapcore.InfoLevel, true)
}

// NewWithWriter returns a logger writing to w at level.
func NewWithWriter(w io.Writer, level zapcore.Level, json bool) *zap.Logger {
	var enc zapcore.Encoder
	if json {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller())
}

// ParseLevel maps a level name to a zap level. Unknown names are info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
