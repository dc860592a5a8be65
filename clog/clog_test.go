package clog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/ceyewan/levelconf/logging"
	"github.com/ceyewan/levelconf/xerrors"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), line)
		out = append(out, entry)
	}
	return out
}

func newJSONLogger(t *testing.T, level string, opts ...Option) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger, err := New(&Config{Level: level, Format: "json", Output: "buffer"}, append(opts, WithWriter(&buf))...)
	require.NoError(t, err)
	return logger, &buf
}

// TestNew 测试 Logger 创建
func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "valid config", config: &Config{Level: "info", Format: "console", Output: "stdout"}},
		{name: "nil config", config: nil},
		{name: "upper case level", config: &Config{Level: "WARN"}},
		{name: "trace level", config: &Config{Level: "trace", Format: "json"}},
		{name: "invalid level", config: &Config{Level: "verbose"}, wantErr: true},
		{name: "invalid format", config: &Config{Level: "info", Format: "xml"}, wantErr: true},
		{name: "buffer without option", config: &Config{Output: "buffer"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if tt.wantErr {
				assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

// TestLoggerLevels 测试日志级别过滤
func TestLoggerLevels(t *testing.T) {
	logger, buf := newJSONLogger(t, "debug")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 4)
	for i, want := range []string{"DEBUG", "INFO", "WARN", "ERROR"} {
		assert.Equal(t, want, entries[i]["level"])
	}
}

// TestLoggerSetLevel 测试动态设置日志级别
func TestLoggerSetLevel(t *testing.T) {
	logger, buf := newJSONLogger(t, "info")
	child := logger.WithNamespace("child")

	logger.Debug("hidden")
	require.NoError(t, logger.SetLevel(logging.LevelDebug))
	child.Debug("visible from child")

	require.NoError(t, logger.SetLevel(logging.LevelOff))
	logger.Error("silenced")

	assert.ErrorIs(t, logger.SetLevel(logging.LevelNotSpecified), xerrors.ErrInvalidInput)

	entries := decodeLines(t, buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible from child", entries[0]["msg"])
	assert.Equal(t, "child", entries[0][NamespaceKey])
}

type contextKey string

// TestLoggerWithContext 测试 Context 字段提取
func TestLoggerWithContext(t *testing.T) {
	logger, buf := newJSONLogger(t, "info", WithContextField(contextKey("trace_id"), "trace_id"))

	ctx := context.WithValue(context.Background(), contextKey("trace_id"), "abc123")
	logger.InfoContext(ctx, "with context")
	logger.InfoContext(context.Background(), "without context")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "abc123", entries[0]["trace_id"])
	assert.NotContains(t, entries[1], "trace_id")
}

// TestLoggerWithTraceContext 测试 span context 字段提取
func TestLoggerWithTraceContext(t *testing.T) {
	logger, buf := newJSONLogger(t, "info", WithTraceContext())

	sc := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    oteltrace.TraceID{0x01, 0x02, 0x03},
		SpanID:     oteltrace.SpanID{0x0a, 0x0b},
		TraceFlags: oteltrace.FlagsSampled,
	})
	ctx := oteltrace.ContextWithSpanContext(context.Background(), sc)
	logger.InfoContext(ctx, "traced")
	logger.InfoContext(context.Background(), "untraced")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, sc.TraceID().String(), entries[0]["trace_id"])
	assert.Equal(t, sc.SpanID().String(), entries[0]["span_id"])
	assert.NotContains(t, entries[1], "trace_id")
}

// TestLoggerWithNamespace 测试命名空间
func TestLoggerWithNamespace(t *testing.T) {
	logger, buf := newJSONLogger(t, "info", WithNamespace("levelconf"))

	a := logger.WithNamespace("levels")
	b := logger.WithNamespace("config")
	a.Info("a")
	b.Info("b")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "levelconf.levels", entries[0][NamespaceKey])
	assert.Equal(t, "levelconf.config", entries[1][NamespaceKey])
}

// TestLoggerWith 派生的 Logger 不会修改兄弟 Logger 的字段
func TestLoggerWith(t *testing.T) {
	logger, buf := newJSONLogger(t, "info")

	base := logger.With(String("component", "levels"))
	first := base.With(String("pass", "1"))
	second := base.With(String("pass", "2"))
	first.Info("first")
	second.Info("second")

	entries := decodeLines(t, buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "levels", entries[0]["component"])
	assert.Equal(t, "1", entries[0]["pass"])
	assert.Equal(t, "2", entries[1]["pass"])
}

// TestErrorFields 测试错误字段
func TestErrorFields(t *testing.T) {
	logger, buf := newJSONLogger(t, "info")

	coded := xerrors.WithCode(errors.New("bad level"), "INVALID_LOG_LEVEL")
	logger.Error("plain", Error(errors.New("boom")))
	logger.Error("coded", ErrorWithCode(coded, ""))
	logger.Error("nil", Error(nil))

	entries := decodeLines(t, buf)
	require.Len(t, entries, 3)
	assert.Equal(t, "boom", entries[0]["err_msg"])

	group, ok := entries[1]["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "INVALID_LOG_LEVEL", group["code"])

	assert.NotContains(t, entries[2], "err_msg")
}

// TestConsoleFormat 测试文本格式输出
func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&Config{Level: "info", Format: "console", Output: "buffer"}, WithWriter(&buf))
	require.NoError(t, err)

	logger.Info("hello", String("key", "value"))
	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "key=value")
}

// TestNewHandler 测试导出的 slog.Handler
func TestNewHandler(t *testing.T) {
	var buf bytes.Buffer
	h, err := NewHandler(&Config{Level: "info", Format: "json", Output: "buffer"}, WithWriter(&buf))
	require.NoError(t, err)
	assert.False(t, h.Enabled(context.Background(), logging.SlogLevel(logging.LevelDebug)))
	assert.True(t, h.Enabled(context.Background(), logging.SlogLevel(logging.LevelWarn)))
}

// TestDiscard 测试静默 Logger
func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("nothing")
	assert.NoError(t, l.SetLevel(logging.LevelDebug))
	assert.Equal(t, l, l.With(String("k", "v")).WithNamespace("x"))
}
