// Package logging builds the process-wide structured logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation limits for the optional log file.
const (
	maxSizeMB  = 50
	maxBackups = 7
	maxAgeDays = 14
)

// New returns a JSON slog.Logger at the given level ("debug", "info", "warn"
// or "error"; anything else means info). Output always goes to stdout; when
// file is non-empty it is also written to a size-rotated file at that path.
func New(level, file string) *slog.Logger {
	var w io.Writer = os.Stdout
	if file != "" {
		w = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
	}
	return NewWithWriter(level, w)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(level string, w io.Writer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(level),
	}))
}

// ParseLevel maps a LOG_LEVEL value to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return l
}
