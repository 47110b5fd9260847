// Package logger configures the application's logging.
//
// It uses *ZeroLog* for structured logs and bridges zerolog levels
// onto pgx's tracelog so SQL can be traced with the same logger.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"

	"github.com/deppfellow/perftracker/internal/config"
)

// New builds the application logger from the observability config.
//
// Logs always go to stderr: stdout belongs to the interactive menu.
// Format "console" renders human-friendly lines, anything else JSON.
func New(cfg *config.ObservabilityConfig) *zerolog.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit destination, used by tests.
func NewWithWriter(cfg *config.ObservabilityConfig, w io.Writer) *zerolog.Logger {
	level := ParseLevel(cfg.GetLogLevel())

	out := w
	if cfg.Logging.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	l := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.ServiceName).
		Str("env", cfg.Environment).
		Logger()

	return &l
}

// ParseLevel converts a configured level name into a zerolog level.
// Unknown names fall back to info.
func ParseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewPgxLogger returns the logger handed to pgx tracelog. It is a
// console logger with its own component tag so SQL traces are easy to
// tell apart from lifecycle logs.
func NewPgxLogger(base *zerolog.Logger) zerolog.Logger {
	return base.With().Str("component", "pgx").Logger()
}

// GetPgxTraceLogLevel maps a zerolog level onto the pgx tracelog scale.
func GetPgxTraceLogLevel(level zerolog.Level) tracelog.LogLevel {
	switch level {
	case zerolog.TraceLevel:
		return tracelog.LogLevelTrace
	case zerolog.DebugLevel:
		return tracelog.LogLevelDebug
	case zerolog.InfoLevel:
		return tracelog.LogLevelInfo
	case zerolog.WarnLevel:
		return tracelog.LogLevelWarn
	case zerolog.ErrorLevel:
		return tracelog.LogLevelError
	default:
		return tracelog.LogLevelNone
	}
}
