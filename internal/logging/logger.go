// File: internal/logging/logger.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// zap logger construction for the command-line tools.

package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration options.
type Config struct {
	// Format is "json" or "text" (alias "console").
	Format string
	// Level is the minimum level: "debug", "info", "warn", "error".
	Level string
	// Output defaults to os.Stderr.
	Output io.Writer
	// Registerer, when set, receives a per-level entry counter.
	Registerer prometheus.Registerer
}

// DefaultConfig returns the default logger configuration.
func DefaultConfig() Config {
	return Config{
		Format: "text",
		Level:  "info",
		Output: os.Stderr,
	}
}

// NewLogger creates a zap logger from cfg.
func NewLogger(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	var encoder zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "", "text", "console":
		ec := zap.NewDevelopmentEncoderConfig()
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(ec)
	case "json":
		ec := zap.NewProductionEncoderConfig()
		ec.TimeKey = "timestamp"
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder = zapcore.NewJSONEncoder(ec)
	default:
		return nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	var core zapcore.Core = zapcore.NewCore(encoder, zapcore.AddSync(out), level)
	if cfg.Registerer != nil {
		entries := prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hwtopo_log_entries_total",
			Help: "Log entries by level",
		}, []string{"level"})
		if err := cfg.Registerer.Register(entries); err != nil {
			return nil, fmt.Errorf("register log entry counter: %w", err)
		}
		core = &countingCore{Core: core, entries: entries}
	}
	return zap.New(core, zap.AddCaller()), nil
}

// countingCore counts written entries per level.
type countingCore struct {
	zapcore.Core
	entries *prometheus.CounterVec
}

func (c *countingCore) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(entry.Level) {
		return checked.AddCore(entry, c)
	}
	return checked
}

func (c *countingCore) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	c.entries.WithLabelValues(entry.Level.String()).Inc()
	return c.Core.Write(entry, fields)
}

func (c *countingCore) With(fields []zapcore.Field) zapcore.Core {
	return &countingCore{Core: c.Core.With(fields), entries: c.entries}
}
