// Package logging builds the zap logger shared by every mintdeck component.
//
// The TUI owns the terminal, so output goes to a file unless the file is "-",
// which means stderr (used by the headless subcommands).
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"mintdeck/internal/config"
)

// Options selects the logger flavor.
type Options struct {
	Mode    config.Mode
	Verbose bool
}

// New builds a logger from cfg. Development mode uses zap's console encoder
// and logs at debug level unless cfg.Level says otherwise.
func New(cfg config.LoggingConfig, opts Options) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	fallback := zapcore.InfoLevel
	if opts.Mode.IsDevelopment() {
		zc = zap.NewDevelopmentConfig()
		fallback = zapcore.DebugLevel
	}

	level, err := parseLevel(cfg.Level, fallback)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	out := cfg.File
	switch out {
	case "", "-":
		out = "stderr"
	default:
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.String("mode", opts.Mode.String())), nil
}

func parseLevel(s string, fallback zapcore.Level) (zapcore.Level, error) {
	if s == "" {
		return fallback, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return fallback, fmt.Errorf("logging level %q: %w", s, err)
	}
	return l, nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
