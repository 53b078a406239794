// Package logger provides structured logging utilities.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level represents logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var levelNames = map[Level]string{
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
}

// String returns the string representation of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "INFO"
}

// ParseLevel parses a string into a Level. Unknown names map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// sink is the destination shared by a logger and everything derived from it.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *sink) write(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(append(data, '\n'))
}

// Logger writes one JSON object per line.
type Logger struct {
	sink   *sink
	level  Level
	fields map[string]any
}

// New creates a Logger writing to output at the given level. A nil output
// writes to stdout.
func New(output io.Writer, level string) *Logger {
	if output == nil {
		output = os.Stdout
	}
	return &Logger{
		sink:   &sink{out: output},
		level:  ParseLevel(level),
		fields: map[string]any{},
	}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return New(io.Discard, "error")
}

// With returns a Logger that adds keyvals to every entry. The new logger
// shares the parent's output.
func (l *Logger) With(keyvals ...any) *Logger {
	fields := make(map[string]any, len(l.fields)+len(keyvals)/2)
	for k, v := range l.fields {
		fields[k] = v
	}
	addPairs(fields, keyvals)

	return &Logger{sink: l.sink, level: l.level, fields: fields}
}

// Enabled reports whether entries at level are written.
func (l *Logger) Enabled(level Level) bool {
	return level >= l.level
}

// Debug logs a message at debug level.
func (l *Logger) Debug(msg string, keyvals ...any) {
	l.log(LevelDebug, msg, keyvals)
}

// Info logs a message at info level.
func (l *Logger) Info(msg string, keyvals ...any) {
	l.log(LevelInfo, msg, keyvals)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(msg string, keyvals ...any) {
	l.log(LevelWarn, msg, keyvals)
}

// Error logs a message at error level.
func (l *Logger) Error(msg string, keyvals ...any) {
	l.log(LevelError, msg, keyvals)
}

func (l *Logger) log(level Level, msg string, keyvals []any) {
	if !l.Enabled(level) {
		return
	}

	entry := make(map[string]any, len(l.fields)+len(keyvals)/2+3)
	for k, v := range l.fields {
		entry[k] = v
	}
	addPairs(entry, keyvals)

	entry["time"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		data, _ = json.Marshal(map[string]any{
			"time":  entry["time"],
			"level": level.String(),
			"msg":   msg,
			"error": fmt.Sprintf("unencodable log fields: %v", err),
		})
	}
	l.sink.write(data)
}

// addPairs copies alternating key/value pairs into dst. Non-string keys and
// a trailing key without a value are dropped. Errors are stored as their
// message since they rarely marshal to anything useful.
func addPairs(dst map[string]any, keyvals []any) {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, ok := keyvals[i].(string)
		if !ok {
			continue
		}
		val := keyvals[i+1]
		if err, isErr := val.(error); isErr && err != nil {
			val = err.Error()
		}
		dst[key] = val
	}
}
