// Package navlog provides the explicit-context logger threaded through the
// navdatabase and flight-plan assembler, in place of the process-global
// logging callback spec.md §5 describes (see DESIGN.md: that design note
// is resolved in favor of an explicit *Logger carried on call sites).
package navlog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps slog.Logger the way the teacher's log package does. Its
// Warnf/Errorf/Debugf methods accept a nil receiver and then write
// nothing; callers that want the stderr sink pass Default().
type Logger struct {
	*slog.Logger
}

// New builds a Logger that writes structured records to a rotating file
// under dir when dir is non-empty, and text records to stderr otherwise;
// nothing is copied to stderr while a file is in use.
func New(level string, dir string) *Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	var h slog.Handler
	if dir != "" {
		w := &lumberjack.Logger{
			Filename:   dir + "/navdconv.log",
			MaxSize:    16, // MB
			MaxBackups: 2,
		}
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}

	return &Logger{Logger: slog.New(h)}
}

// Default returns a Logger that writes only to stderr at info level; it's
// what a FlightPlan or Database uses when the caller doesn't supply one.
func Default() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, nil))}
}

func (l *Logger) Warnf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Logger.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Logger.Error(fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...any) {
	if l == nil {
		return
	}
	l.Logger.Debug(fmt.Sprintf(format, args...))
}
