package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{" warn ", LogLevelWarn},
		{"warning", LogLevelWarn},
		{"error", LogLevelError},
		{"info", LogLevelInfo},
		{"", LogLevelInfo},
		{"bogus", LogLevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLogLevel_String(t *testing.T) {
	assert.Equal(t, "DEBUG", LogLevelDebug.String())
	assert.Equal(t, "ERROR", LogLevelError.String())
	assert.Equal(t, "UNKNOWN", LogLevel(42).String())
}

func TestClientLogger_JSONOutputCarriesContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "json", Output: &buf}).
		WithComponent("transport").
		WithSession("s1").
		WithContext("agent", "http://a")

	logger.Info("hello", "k", "v")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "transport", entry["component"])
	assert.Equal(t, "s1", entry["session_id"])
	assert.Equal(t, "http://a", entry["agent"])
	assert.Equal(t, "v", entry["k"])
}

func TestClientLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelWarn, Format: "text", Output: &buf})

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestClientLogger_WithDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf})
	_ = parent.WithContext("child_only", 1)

	parent.Info("parent")
	assert.NotContains(t, buf.String(), "child_only")
}

func TestLogRPCCall(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelDebug, Format: "text", Output: &buf})

	LogRPCCall(logger, "message/send", "t1", 10*time.Millisecond, 200, nil)
	assert.Contains(t, buf.String(), "rpc call completed")
	assert.Contains(t, buf.String(), "http_status=200")

	buf.Reset()
	LogRPCCall(logger, "message/send", "t2", time.Millisecond, 0, errors.New("boom"))
	out := buf.String()
	assert.Contains(t, out, "rpc call failed")
	assert.Contains(t, out, "level=WARN")
	assert.False(t, strings.Contains(out, "http_status"))
}

func TestLogTurn(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&LoggerConfig{Level: LogLevelInfo, Format: "text", Output: &buf})

	LogTurn(logger, "s1", "t1", time.Second, nil)
	assert.Contains(t, buf.String(), "turn completed")

	buf.Reset()
	LogTurn(logger, "s1", "t1", time.Second, errors.New("bad"))
	assert.Contains(t, buf.String(), "turn failed")
	assert.Contains(t, buf.String(), "error=bad")
}

func TestNoOpLogger(t *testing.T) {
	var l Logger = NoOpLogger{}
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer
	l := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	LogRPCCall(l, "message/send", "t1", time.Millisecond, 200, nil)
	assert.Contains(t, buf.String(), "rpc call completed")
	assert.Contains(t, buf.String(), "method=message/send")

	assert.NotNil(t, NewDefaultSlogLogger())
}
