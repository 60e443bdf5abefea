// Package logger wraps zerolog with a small key/value API.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Log is the global logger instance wrapper
var Log = New(os.Stderr, "info", "console")

// Logger writes leveled, structured events.
type Logger struct {
	z zerolog.Logger
}

// New creates a logger writing to w. format is "json" or "console";
// unknown levels fall back to info.
func New(w io.Writer, level, format string) *Logger {
	lvl, err := ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	out := w
	if strings.ToLower(format) != "json" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: !isTerminal(w)}
	}

	return &Logger{z: zerolog.New(out).Level(lvl).With().Timestamp().Logger()}
}

// Setup configures the global logger to write to stderr.
func Setup(level string, format string) {
	Log = New(os.Stderr, level, format)
}

// ParseLevel maps debug, info, warn and error (any case) to a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return zerolog.DebugLevel, nil
	case "INFO", "":
		return zerolog.InfoLevel, nil
	case "WARN", "WARNING":
		return zerolog.WarnLevel, nil
	case "ERROR":
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q (use debug, info, warn or error)", level)
	}
}

// With returns a child logger that adds the key/value pairs to every event.
func (l *Logger) With(args ...any) *Logger {
	ctx := l.z.With()
	for i := 0; i+1 < len(args); i += 2 {
		ctx = ctx.Interface(fieldKey(args[i]), args[i+1])
	}
	return &Logger{z: ctx.Logger()}
}

// Info logs at Info level with variadic key-value pairs
func (l *Logger) Info(msg string, args ...any) {
	addFields(l.z.Info(), args...).Msg(msg)
}

// Debug logs at Debug level with variadic key-value pairs
func (l *Logger) Debug(msg string, args ...any) {
	addFields(l.z.Debug(), args...).Msg(msg)
}

// Warn logs at Warn level with variadic key-value pairs
func (l *Logger) Warn(msg string, args ...any) {
	addFields(l.z.Warn(), args...).Msg(msg)
}

// Error logs at Error level with variadic key-value pairs
func (l *Logger) Error(msg string, args ...any) {
	addFields(l.z.Error(), args...).Msg(msg)
}

// addFields adds variadic key-value pairs to the event. Errors are written
// with their message rather than their (usually empty) JSON form.
func addFields(e *zerolog.Event, args ...any) *zerolog.Event {
	for i := 0; i+1 < len(args); i += 2 {
		key := fieldKey(args[i])
		switch v := args[i+1].(type) {
		case error:
			e.AnErr(key, v)
		case fmt.Stringer:
			e.Stringer(key, v)
		default:
			e.Interface(key, v)
		}
	}
	return e
}

func fieldKey(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", k)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
