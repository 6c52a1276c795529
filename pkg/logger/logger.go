package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"lipost/pkg/config"
)

// Logger defines the interface for logging operations
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)

	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger

	DebugWithFields(msg string, fields map[string]interface{})
	InfoWithFields(msg string, fields map[string]interface{})
	WarnWithFields(msg string, fields map[string]interface{})
	ErrorWithFields(msg string, fields map[string]interface{})
}

// zerologLogger implements Logger. Fields added with WithField(s) live in
// the zerolog context, so child loggers never share mutable state.
type zerologLogger struct {
	zl zerolog.Logger
}

// New creates a Logger from cfg. Without a file it writes human-readable
// lines to stderr so command output on stdout stays clean.
func New(cfg *config.LoggingConfig) (Logger, error) {
	var out io.Writer = zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}

	if cfg.File != "" {
		f, err := openLogFile(cfg.File)
		if err != nil {
			return nil, err
		}
		out = f
	}

	return NewWithWriter(out, cfg.Level)
}

// NewWithWriter creates a Logger writing zerolog output to w at level
func NewWithWriter(w io.Writer, level string) (Logger, error) {
	lvl, err := parseLogLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	zl := zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("app", "lipost").
		Logger()
	return &zerologLogger{zl: zl}, nil
}

// openLogFile opens path for appending, creating missing directories
func openLogFile(path string) (io.Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// parseLogLevel accepts the levels allowed in config files. "warning" is an
// alias for "warn"; an empty level is rejected.
func parseLogLevel(level string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(level))
	if name == "warning" {
		name = "warn"
	}
	switch name {
	case "debug", "info", "warn", "error", "disabled":
		return zerolog.ParseLevel(name)
	}
	return zerolog.InfoLevel, fmt.Errorf("unknown log level: %q", level)
}

func (l *zerologLogger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *zerologLogger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *zerologLogger) Warn(msg string)  { l.zl.Warn().Msg(msg) }
func (l *zerologLogger) Error(msg string) { l.zl.Error().Msg(msg) }

func (l *zerologLogger) WithField(key string, value interface{}) Logger {
	return &zerologLogger{zl: l.zl.With().Interface(key, value).Logger()}
}

func (l *zerologLogger) WithFields(fields map[string]interface{}) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *zerologLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return &zerologLogger{zl: l.zl.With().Err(err).Logger()}
}

func (l *zerologLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	withFields(l.zl.Debug(), fields).Msg(msg)
}

func (l *zerologLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	withFields(l.zl.Info(), fields).Msg(msg)
}

func (l *zerologLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	withFields(l.zl.Warn(), fields).Msg(msg)
}

func (l *zerologLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	withFields(l.zl.Error(), fields).Msg(msg)
}

// withFields attaches fields to e; zerolog returns a nil event for disabled
// levels and handles it itself
func withFields(e *zerolog.Event, fields map[string]interface{}) *zerolog.Event {
	if len(fields) == 0 {
		return e
	}
	return e.Fields(fields)
}

var globalLogger Logger

// Initialize replaces the global logger and zerolog's package logger
func Initialize(cfg *config.LoggingConfig) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	globalLogger = l
	log.Logger = l.(*zerologLogger).zl
	return nil
}

// GetLogger returns the global logger, creating an info-level one on first use
func GetLogger() Logger {
	if globalLogger == nil {
		globalLogger, _ = New(&config.LoggingConfig{Level: "info"})
	}
	return globalLogger
}

// WithField adds a field to the global logger
func WithField(key string, value interface{}) Logger {
	return GetLogger().WithField(key, value)
}

// WithError adds an error to the global logger
func WithError(err error) Logger {
	return GetLogger().WithError(err)
}
