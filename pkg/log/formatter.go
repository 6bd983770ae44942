package log

// The formatting layer under the slog handlers. FormatterHandler flattens a
// record into a LogEntry and hands it to a LogFormatter for rendering; the
// engine ships the two formats it needs, JSON for machine-read verifier logs
// (the default output) and plain text for local runs.

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// LogLevel is the severity scale of the formatting layer.
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

// String returns the uppercase level name.
func (l LogLevel) String() string {
	if l < DEBUG || l > ERROR {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelNames[l]
}

// Slog maps the level onto the slog scale.
func (l LogLevel) Slog() slog.Level {
	switch l {
	case DEBUG:
		return slog.LevelDebug
	case WARN:
		return slog.LevelWarn
	case ERROR:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelFromString parses a level name, case-insensitively. Anything
// unrecognized, including the empty string, falls back to INFO so a missing
// configuration value never silences or floods the log.
func LevelFromString(s string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

// LogEntry is one flattened log event: handler context and record attributes
// merged into a single field map.
type LogEntry struct {
	Timestamp time.Time
	Level     LogLevel
	Message   string
	Fields    map[string]interface{}
}

// LogFormatter renders an entry as a single output line (without trailing
// newline).
type LogFormatter interface {
	Format(entry LogEntry) string
}

// TextFormatter renders entries as aligned plain text:
//
//	2026-08-30 12:00:00 INFO  claim accepted chain=7 root=0x56e8...
//
// Fields are sorted by key so output is deterministic.
type TextFormatter struct {
	// TimeFormat overrides the timestamp layout; empty means
	// "2006-01-02 15:04:05".
	TimeFormat string
}

// Format implements LogFormatter.
func (f *TextFormatter) Format(entry LogEntry) string {
	layout := f.TimeFormat
	if layout == "" {
		layout = "2006-01-02 15:04:05"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", entry.Timestamp.Format(layout), entry.Level, entry.Message)
	for _, k := range sortedKeys(entry.Fields) {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}

// JSONFormatter renders entries as one JSON object per line with time, level
// and msg keys plus the entry fields.
type JSONFormatter struct {
	// TimeFormat overrides the timestamp layout; empty means time.RFC3339.
	TimeFormat string
}

// Format implements LogFormatter. Fields that cannot be marshalled degrade
// to a minimal record; logging must not fail the caller.
func (f *JSONFormatter) Format(entry LogEntry) string {
	layout := f.TimeFormat
	if layout == "" {
		layout = time.RFC3339
	}
	obj := make(map[string]interface{}, len(entry.Fields)+3)
	for k, v := range entry.Fields {
		obj[k] = v
	}
	obj["time"] = entry.Timestamp.Format(layout)
	obj["level"] = entry.Level.String()
	obj["msg"] = entry.Message

	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Sprintf(`{"time":%q,"level":%q,"msg":%q,"logerr":"unmarshalable fields"}`,
			entry.Timestamp.Format(layout), entry.Level.String(), entry.Message)
	}
	return string(data)
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
