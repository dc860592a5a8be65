package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ceyewan/levelconf/xerrors"
)

var (
	_ System = (*SlogSystem)(nil)
	_ System = (*ZapSystem)(nil)
	_ System = (*ZerologSystem)(nil)
)

func lines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func TestSlogSystem(t *testing.T) {
	var buf bytes.Buffer
	// handler 自身级别为 ERROR，也不影响命名空间过滤
	sys := NewSlogSystem(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}))
	assert.Equal(t, "slog", sys.Name())

	orders := sys.Logger("com.example.orders")
	orders.Debug("hidden")
	assert.Empty(t, lines(&buf))

	require.NoError(t, sys.SetLogLevel("com.example", LevelDebug))
	orders.Debug("shown")
	got := lines(&buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0]["msg"])
	assert.Equal(t, "com.example.orders", got[0][LoggerNameKey])

	require.NoError(t, sys.SetLogLevel("com.example.orders", LevelOff))
	orders.Error("silenced")
	assert.Len(t, lines(&buf), 1)

	require.NoError(t, sys.SetLogLevel("com.example.orders", LevelTrace))
	orders.Log(t.Context(), SlogLevel(LevelTrace), "trace")
	assert.Len(t, lines(&buf), 2)

	require.NoError(t, sys.Refresh())
	orders.Debug("hidden again")
	assert.Len(t, lines(&buf), 2)
	assert.Equal(t, LevelInfo, sys.EffectiveLevel("com.example.orders"))
}

func TestSlogSystemRejectsUnknownLevel(t *testing.T) {
	sys := NewSlogSystem(slog.NewTextHandler(&bytes.Buffer{}, nil))
	err := sys.SetLogLevel("foo", Level(42))
	require.Error(t, err)
	assert.True(t, xerrors.Is(err, xerrors.ErrInvalidInput))
}

func TestZapSystem(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sys := NewZapSystem(core, WithName("zap-main"), WithRootLevel(LevelWarn))
	assert.Equal(t, "zap-main", sys.Name())

	svc := sys.Logger("svc.api")
	svc.Info("hidden")
	assert.Equal(t, 0, logs.Len())

	require.NoError(t, sys.SetLogLevel("svc", LevelDebug))
	svc.Debug("shown", zap.String("k", "v"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "shown", entry.Message)
	assert.Equal(t, "svc.api", entry.LoggerName)

	// With 派生的日志器共享同一级别判断
	child := svc.With(zap.Int("n", 1))
	require.NoError(t, sys.SetLogLevel("svc.api", LevelOff))
	child.Error("silenced")
	assert.Equal(t, 1, logs.Len())

	require.NoError(t, sys.Refresh())
	svc.Warn("root warn")
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, LevelWarn, sys.EffectiveLevel("svc.api"))
}

func TestZapEnabler(t *testing.T) {
	sys := NewZapSystem(zapcore.NewNopCore())
	enab := sys.Enabler("svc.api")

	assert.True(t, enab.Enabled(zapcore.InfoLevel))
	assert.False(t, enab.Enabled(zapcore.DebugLevel))

	require.NoError(t, sys.SetLogLevel("svc", LevelTrace))
	assert.True(t, enab.Enabled(zapcore.DebugLevel))

	require.NoError(t, sys.SetLogLevel("svc.api", LevelOff))
	assert.False(t, enab.Enabled(zapcore.FatalLevel))

	require.NoError(t, sys.SetLogLevel("svc.api", LevelError))
	assert.False(t, enab.Enabled(zapcore.WarnLevel))
	assert.True(t, enab.Enabled(zapcore.ErrorLevel))
}

func TestZerologSystem(t *testing.T) {
	var buf bytes.Buffer
	sys := NewZerologSystem(&buf)

	db := sys.Logger("db.pool")
	db.Debug().Msg("hidden")
	assert.Empty(t, lines(&buf))

	require.NoError(t, sys.SetLogLevel("db", LevelDebug))
	db.Debug().Msg("shown")
	got := lines(&buf)
	require.Len(t, got, 1)
	assert.Equal(t, "shown", got[0][zerolog.MessageFieldName])
	assert.Equal(t, "db.pool", got[0][LoggerNameKey])

	require.NoError(t, sys.SetLogLevel("db.pool", LevelOff))
	db.Error().Msg("silenced")
	assert.Len(t, lines(&buf), 1)

	require.NoError(t, sys.SetLogLevel("db.pool", LevelNotSpecified))
	db.Info().Msg("inherits")
	assert.Len(t, lines(&buf), 2)

	require.NoError(t, sys.Refresh())
	assert.Equal(t, map[string]Level{"root": LevelInfo}, sys.Levels())
}
