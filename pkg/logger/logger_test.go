package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLine(t *testing.T, line []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(line, &entry))
	return entry
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(*Logger)
		level string
	}{
		{"debug", func(l *Logger) { l.Debug("message", "key", "value") }, "DEBUG"},
		{"info", func(l *Logger) { l.Info("message", "key", "value") }, "INFO"},
		{"warn", func(l *Logger) { l.Warn("message", "key", "value") }, "WARN"},
		{"error", func(l *Logger) { l.Error("message", "key", "value") }, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(New(&buf, "debug"))

			entry := decodeLine(t, buf.Bytes())
			assert.Equal(t, tt.level, entry["level"])
			assert.Equal(t, "message", entry["msg"])
			assert.Equal(t, "value", entry["key"])
			assert.NotEmpty(t, entry["time"])
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		logFunc   func(*Logger)
		shouldLog bool
	}{
		{"debug logs at debug level", "debug", func(l *Logger) { l.Debug("msg") }, true},
		{"debug skipped at info level", "info", func(l *Logger) { l.Debug("msg") }, false},
		{"warn logs at info level", "info", func(l *Logger) { l.Warn("msg") }, true},
		{"info skipped at warn level", "warn", func(l *Logger) { l.Info("msg") }, false},
		{"error logs at error level", "error", func(l *Logger) { l.Error("msg") }, true},
		{"warn skipped at error level", "error", func(l *Logger) { l.Warn("msg") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(New(&buf, tt.level))

			if tt.shouldLog {
				assert.NotEmpty(t, buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, "info")

	child := root.With("component", "codec").With("request_id", "abc123", 42, "dropped")
	child.Info("encoded")

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "codec", entry["component"])
	assert.Equal(t, "abc123", entry["request_id"])
	assert.NotContains(t, entry, "42")

	buf.Reset()
	root.Info("plain")
	entry = decodeLine(t, buf.Bytes())
	assert.NotContains(t, entry, "component", "parent must not see child fields")
}

func TestLogger_ErrorValues(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info").Error("failed", "error", errors.New("boom"))

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "boom", entry["error"])
}

func TestLogger_UnencodableField(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "info").Info("message", "channel", make(chan int))

	entry := decodeLine(t, buf.Bytes())
	assert.Equal(t, "message", entry["msg"])
	assert.Contains(t, entry["error"], "unencodable")
}

func TestLogger_ConcurrentChildrenShareOutput(t *testing.T) {
	var buf bytes.Buffer
	root := New(&buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			child := root.With("worker", i)
			for j := 0; j < 50; j++ {
				child.Info("tick", "n", j)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1000)
	for _, line := range lines {
		decodeLine(t, []byte(line))
	}
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error("discarded")
	assert.False(t, log.Enabled(LevelWarn))
	assert.True(t, log.Enabled(LevelError))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"invalid", LevelInfo},
		{"", LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "WARN", LevelWarn.String())
	assert.Equal(t, "INFO", Level(999).String())
}
