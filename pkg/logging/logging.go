// Package logging provides structured logging for the AMF core.
//
// All subsystems log through here rather than touching slog directly, so that
// the output format (and, for alarm-producing events, downstream NTF routing)
// stays consistent across the entity model, assignment engine, admin operation
// engine, component lifecycle driver and checkpoint replicator.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// Level is the severity of a log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelNotice
	LevelWarn
	LevelError
)

// String makes Level satisfy fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelNotice:
		return "NOTICE"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// SlogLevel maps our severities onto the smaller slog scale; NOTICE (used for
// state-machine errors per spec §7) is logged at slog's INFO level with an
// explicit "notice" attribute so it is not lost but does not page anyone.
func (l Level) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo, LevelNotice:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var defaultLogger *slog.Logger

// Init configures the package-level logger. Call once at process startup.
func Init(level Level, output io.Writer) {
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: level.SlogLevel()})
	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

func ensure() *slog.Logger {
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return defaultLogger
}

func logInternal(level Level, subsystem string, err error, messageFmt string, args ...interface{}) {
	logger := ensure()
	if !logger.Enabled(context.Background(), level.SlogLevel()) {
		return
	}
	msg := messageFmt
	if len(args) > 0 {
		msg = fmt.Sprintf(messageFmt, args...)
	}

	var attrs []slog.Attr
	attrs = append(attrs, slog.String("subsystem", subsystem))
	if level == LevelNotice {
		attrs = append(attrs, slog.Bool("notice", true))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	logger.LogAttrs(context.Background(), level.SlogLevel(), msg, attrs...)
}

// Debug logs a debug message.
func Debug(subsystem, messageFmt string, args ...interface{}) {
	logInternal(LevelDebug, subsystem, nil, messageFmt, args...)
}

// Info logs an informational message.
func Info(subsystem, messageFmt string, args ...interface{}) {
	logInternal(LevelInfo, subsystem, nil, messageFmt, args...)
}

// Notice logs an internal state-machine error at NOTICE severity, per spec §7
// propagation policy ("internal state-machine errors are logged at NOTICE
// severity").
func Notice(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelNotice, subsystem, err, messageFmt, args...)
}

// Warn logs a warning message.
func Warn(subsystem, messageFmt string, args ...interface{}) {
	logInternal(LevelWarn, subsystem, nil, messageFmt, args...)
}

// Error logs an error message.
func Error(subsystem string, err error, messageFmt string, args ...interface{}) {
	logInternal(LevelError, subsystem, err, messageFmt, args...)
}

// Fields renders a slice of key/value pairs as a single "k=v k=v" string,
// useful for the audit-style single-line summaries admin operations emit.
func Fields(pairs ...string) string {
	var out string
	for i := 0; i+1 < len(pairs); i += 2 {
		if out != "" {
			out += " "
		}
		out += pairs[i] + "=" + pairs[i+1]
	}
	return out
}

// Timestamp is a small helper so callers don't reach for time.Now directly in
// places where the timestamp itself is meant to be part of a log record.
func Timestamp() time.Time { return time.Now() }
