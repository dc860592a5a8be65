package logging

import (
	"context"
	"log/slog"
	"math"

	"github.com/ceyewan/levelconf/xerrors"
)

// LoggerNameKey 后端日志器写入记录的名称字段
const LoggerNameKey = "logger"

// SlogLevel 将 Level 映射为 slog.Level
//
// TRACE 映射为 -8，ALL 映射为最小值，OFF 映射为最大值。
// LevelNotSpecified 按 INFO 处理。
func SlogLevel(l Level) slog.Level {
	switch l {
	case LevelAll:
		return slog.Level(math.MinInt32)
	case LevelTrace:
		return slog.LevelDebug - 4
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelOff:
		return slog.Level(math.MaxInt32)
	default:
		return slog.LevelInfo
	}
}

// SlogSystem 基于 log/slog 的日志后端
type SlogSystem struct {
	name    string
	handler slog.Handler
	reg     *registry
}

// NewSlogSystem 以 handler 作为输出创建后端
//
// handler 自身的级别过滤会被绕过，是否输出完全由命名空间级别决定。
func NewSlogSystem(handler slog.Handler, opts ...Option) *SlogSystem {
	o := applyOptions("slog", opts...)
	return &SlogSystem{
		name:    o.name,
		handler: handler,
		reg:     newRegistry(o.rootLevel),
	}
}

func (s *SlogSystem) Name() string { return s.name }

func (s *SlogSystem) Refresh() error {
	s.reg.reset()
	return nil
}

func (s *SlogSystem) SetLogLevel(name string, level Level) error {
	if _, ok := levelNames[level]; !ok {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "slog: unsupported level %d for logger %q", int(level), name)
	}
	s.reg.set(name, level)
	return nil
}

// EffectiveLevel 返回 name 当前生效的级别
func (s *SlogSystem) EffectiveLevel(name string) Level {
	return s.reg.effective(name)
}

// Levels 返回当前覆盖表的快照
func (s *SlogSystem) Levels() map[string]Level {
	return s.reg.snapshot()
}

// Handler 返回按 name 过滤级别的 slog.Handler
func (s *SlogSystem) Handler(name string) slog.Handler {
	var h slog.Handler = &namedHandler{inner: s.handler, name: name, reg: s.reg}
	if !isRoot(name) {
		h = h.WithAttrs([]slog.Attr{slog.String(LoggerNameKey, name)})
	}
	return h
}

// Logger 返回名为 name 的 slog.Logger
func (s *SlogSystem) Logger(name string) *slog.Logger {
	return slog.New(s.Handler(name))
}

// namedHandler 在 Enabled 中查询命名空间级别
type namedHandler struct {
	inner slog.Handler
	name  string
	reg   *registry
}

func (h *namedHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := h.reg.effective(h.name)
	if threshold == LevelOff {
		return false
	}
	return level >= SlogLevel(threshold)
}

func (h *namedHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *namedHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &namedHandler{inner: h.inner.WithAttrs(attrs), name: h.name, reg: h.reg}
}

func (h *namedHandler) WithGroup(name string) slog.Handler {
	return &namedHandler{inner: h.inner.WithGroup(name), name: h.name, reg: h.reg}
}
