package logger

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the structured logger used across the service. Every entry carries
// a human message, a machine-friendly event name and a set of fields.
type Logger interface {
	DebugObj(msg, event string, fields map[string]any)
	InfoObj(msg, event string, fields map[string]any)
	WarnObj(msg, event string, fields map[string]any)
	ErrorObj(msg, event string, fields map[string]any)
	Sync() error
}

type zapLogger struct {
	z *zap.Logger
}

// New builds a zap-backed Logger. format is "json" or "console".
func New(level, format string) (Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		cfg = zap.NewProductionConfig()
	case "console":
		cfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unsupported log format %q", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &zapLogger{z: z}, nil
}

// FromZap wraps an existing zap logger.
func FromZap(z *zap.Logger) Logger {
	if z == nil {
		return NopLogger{}
	}
	return &zapLogger{z: z}
}

func (l *zapLogger) DebugObj(msg, event string, fields map[string]any) {
	l.z.Debug(msg, toFields(event, fields)...)
}

func (l *zapLogger) InfoObj(msg, event string, fields map[string]any) {
	l.z.Info(msg, toFields(event, fields)...)
}

func (l *zapLogger) WarnObj(msg, event string, fields map[string]any) {
	l.z.Warn(msg, toFields(event, fields)...)
}

func (l *zapLogger) ErrorObj(msg, event string, fields map[string]any) {
	l.z.Error(msg, toFields(event, fields)...)
}

func (l *zapLogger) Sync() error {
	return l.z.Sync()
}

// toFields converts the map into zap fields sorted by key so output is stable.
func toFields(event string, fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields)+1)
	if event != "" {
		out = append(out, zap.String("event", event))
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) DebugObj(string, string, map[string]any) {}
func (NopLogger) InfoObj(string, string, map[string]any)  {}
func (NopLogger) WarnObj(string, string, map[string]any)  {}
func (NopLogger) ErrorObj(string, string, map[string]any) {}
func (NopLogger) Sync() error                             { return nil }

// Ensure returns log, or a NopLogger when log is nil.
func Ensure(log Logger) Logger {
	if log == nil {
		return NopLogger{}
	}
	return log
}
