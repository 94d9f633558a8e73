// Package logger provides the store's structured, leveled logging: a
// log/slog logger with a TRACE level below slog's built-in DEBUG, text or
// JSON output, and rotation via lumberjack. Logging records store lifecycle
// events (segment create/attach, ENOSPC, stale descriptors); it never
// participates in the POSIX error-return contract (spec §7) — operations
// report every failure through their returned error regardless of what, if
// anything, got logged.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Severity levels, matching the five named levels the original job
// bookkeeping layer understood (TRACE is finer than slog's built-in Debug,
// so it is modeled as a custom level below LevelDebug).
const (
	LevelTrace = slog.Level(-8)
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var severityNames = map[slog.Level]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARNING",
	LevelError: "ERROR",
}

// ParseLevel maps the config-file/flag severity names (TRACE, DEBUG, INFO,
// WARNING, ERROR, OFF) to a slog.Level. OFF is modeled as one level above
// ERROR so nothing is ever logged.
func ParseLevel(name string) slog.Level {
	switch name {
	case "TRACE":
		return LevelTrace
	case "DEBUG":
		return LevelDebug
	case "INFO":
		return LevelInfo
	case "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default: // "OFF" and anything unrecognized
		return LevelError + 1
	}
}

// newHandler renders the custom TRACE level alongside slog's built-ins, in
// either logfmt-ish text or JSON, replacing slog's own level/message keys
// with "severity"/"message" the way the teacher's logger does.
func newHandler(w io.Writer, level *slog.LevelVar, asJSON bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				lvl, _ := a.Value.Any().(slog.Level)
				name, ok := severityNames[lvl]
				if !ok {
					name = lvl.String()
				}
				return slog.String("severity", name)
			case slog.MessageKey:
				return slog.String("message", a.Value.String())
			case slog.TimeKey:
				return slog.Attr{Key: "time", Value: a.Value}
			}
			return a
		},
	}
	if asJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// Logger wraps a configured slog.Logger. The zero value is not usable;
// build one with New or NewNop.
type Logger struct {
	sl    *slog.Logger
	level *slog.LevelVar
}

// Options configures a Logger.
type Options struct {
	// Format is "text" or "json".
	Format string
	// Severity is one of TRACE/DEBUG/INFO/WARNING/ERROR/OFF.
	Severity string
	// FilePath, when non-empty, routes output through a rotating
	// lumberjack.Logger instead of Writer.
	FilePath string
	// Writer is used when FilePath is empty; defaults to os.Stderr.
	Writer io.Writer
}

// New builds a Logger from Options.
func New(opts Options) *Logger {
	var w io.Writer = opts.Writer
	if opts.FilePath != "" {
		w = &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
	} else if w == nil {
		w = os.Stderr
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(ParseLevel(opts.Severity))

	handler := newHandler(w, levelVar, opts.Format == "json")
	return &Logger{sl: slog.New(handler), level: levelVar}
}

// NewNop returns a Logger that discards everything, for tests and for
// callers that have not configured logging.
func NewNop() *Logger {
	return New(Options{Format: "text", Severity: "OFF", Writer: io.Discard})
}

// SetSeverity changes the logger's active level at runtime (config hot
// reload support, matching the teacher's SIGHUP-driven level change).
func (l *Logger) SetSeverity(name string) {
	l.level.Set(ParseLevel(name))
}

func (l *Logger) log(level slog.Level, format string, args ...any) {
	l.sl.Log(context.Background(), level, fmt.Sprintf(format, args...))
}

func (l *Logger) Tracef(format string, args ...any) { l.log(LevelTrace, format, args...) }
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.log(LevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.log(LevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }
