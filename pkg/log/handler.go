package log

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// FormatterHandler adapts a LogFormatter to the slog.Handler interface, so
// the text and JSON formatters can back a Logger. Writes are serialized
// with a mutex; one formatted line is emitted per record.
type FormatterHandler struct {
	mu        sync.Mutex
	w         io.Writer
	level     slog.Level
	formatter LogFormatter
	attrs     []slog.Attr
}

// NewFormatterHandler creates a handler writing formatted entries to w at
// the given minimum level.
func NewFormatterHandler(w io.Writer, level slog.Level, f LogFormatter) *FormatterHandler {
	return &FormatterHandler{w: w, level: level, formatter: f}
}

// Enabled implements slog.Handler.
func (h *FormatterHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements slog.Handler.
func (h *FormatterHandler) Handle(_ context.Context, r slog.Record) error {
	entry := LogEntry{
		Timestamp: r.Time,
		Level:     levelFromSlog(r.Level),
		Message:   r.Message,
	}
	if r.Time.IsZero() {
		entry.Timestamp = time.Now()
	}
	fields := make(map[string]interface{}, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		fields[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		fields[a.Key] = a.Value.Any()
		return true
	})
	if len(fields) > 0 {
		entry.Fields = fields
	}

	line := h.formatter.Format(entry)

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line+"\n")
	return err
}

// WithAttrs implements slog.Handler.
func (h *FormatterHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &FormatterHandler{w: h.w, level: h.level, formatter: h.formatter, attrs: merged}
}

// WithGroup implements slog.Handler. Groups are flattened; the group name is
// dropped.
func (h *FormatterHandler) WithGroup(string) slog.Handler {
	return h
}

// levelFromSlog maps slog levels onto the formatter's level scale.
func levelFromSlog(l slog.Level) LogLevel {
	switch {
	case l < slog.LevelInfo:
		return DEBUG
	case l < slog.LevelWarn:
		return INFO
	case l < slog.LevelError:
		return WARN
	default:
		return ERROR
	}
}

// NewText creates a Logger writing human-readable lines to w using a
// TextFormatter.
func NewText(w io.Writer, level slog.Level) *Logger {
	return NewWithHandler(NewFormatterHandler(w, level, &TextFormatter{}))
}
