// Package clilog provides the slog handler cleye installs for the
// --verbosity flag: colorized levels, no timestamps, one write per record.
package clilog

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a --verbosity value to a slog level. Unknown values fall
// back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing human-friendly records to w at the given
// level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(HumanFriendlySlogHandler(w, &slog.HandlerOptions{Level: level}))
}
