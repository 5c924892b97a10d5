package clilog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// HumanFriendlyHandler is a slog.Handler that formats records for terminal
// consumption: a colorized level tag, the message, then key=value pairs,
// with no timestamps.
//
// Handle assembles the complete line in a local buffer and writes it with a
// single w.Write call, so no mutex is needed; all fields are immutable
// after construction.
type HumanFriendlyHandler struct {
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// HumanFriendlySlogHandler creates a HumanFriendlyHandler writing to w.
func HumanFriendlySlogHandler(w io.Writer, opts *slog.HandlerOptions) *HumanFriendlyHandler {
	h := &HumanFriendlyHandler{w: w}
	if opts != nil {
		h.level = opts.Level
	}
	if h.level == nil {
		h.level = slog.LevelInfo
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *HumanFriendlyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and writes a log record as
// "[LEVEL] message key1=value1 key2=value2".
func (h *HumanFriendlyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf []byte

	buf = append(buf, colorizeLevel(r.Level)...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)

	for _, attr := range h.attrs {
		buf = append(buf, ' ')
		buf = appendAttr(buf, attr)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = append(buf, ' ')
		buf = appendAttr(buf, a)
		return true
	})

	buf = append(buf, '\n')
	_, err := h.w.Write(buf)
	return err
}

// WithAttrs returns a new handler with the given attributes added.
func (h *HumanFriendlyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, len(h.attrs)+len(attrs))
	copy(merged, h.attrs)
	copy(merged[len(h.attrs):], attrs)
	return &HumanFriendlyHandler{w: h.w, level: h.level, attrs: merged}
}

// WithGroup returns the handler unchanged; groups are flattened in
// human-readable output.
func (h *HumanFriendlyHandler) WithGroup(_ string) slog.Handler {
	return h
}

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorGray   = "\033[90m"
)

func colorizeLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed + "[ERROR]" + colorReset
	case level >= slog.LevelWarn:
		return colorYellow + "[WARN]" + colorReset
	case level >= slog.LevelInfo:
		return colorBlue + "[INFO]" + colorReset
	default:
		return colorGray + "[DEBUG]" + colorReset
	}
}

func appendAttr(buf []byte, attr slog.Attr) []byte {
	if attr.Equal(slog.Attr{}) {
		return buf
	}
	buf = append(buf, attr.Key...)
	buf = append(buf, '=')
	return appendValue(buf, attr.Value)
}

func appendValue(buf []byte, v slog.Value) []byte {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if needsQuoting(s) {
			return append(buf, fmt.Sprintf("%q", s)...)
		}
		return append(buf, s...)
	case slog.KindInt64:
		return append(buf, fmt.Sprintf("%d", v.Int64())...)
	case slog.KindUint64:
		return append(buf, fmt.Sprintf("%d", v.Uint64())...)
	case slog.KindFloat64:
		return append(buf, fmt.Sprintf("%g", v.Float64())...)
	case slog.KindBool:
		return append(buf, fmt.Sprintf("%t", v.Bool())...)
	case slog.KindDuration:
		return append(buf, v.Duration().String()...)
	case slog.KindTime:
		return append(buf, v.Time().Format("15:04:05")...)
	case slog.KindLogValuer:
		return appendValue(buf, v.Resolve())
	default:
		return append(buf, fmt.Sprint(v.Any())...)
	}
}

func needsQuoting(s string) bool {
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '"' {
			return true
		}
	}
	return false
}
