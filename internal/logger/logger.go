package logger

import (
	"log/slog"
	"os"
)

// Logger wraps slog with a fatal level for startup failures.
type Logger struct {
	*slog.Logger
}

// New creates a Logger writing to stdout at the named level. The level is
// one of "debug", "info", "warn" or "error"; anything else falls back to
// info rather than failing startup.
func New(level string) *Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l})),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
