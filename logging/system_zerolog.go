package logging

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/ceyewan/levelconf/xerrors"
)

// ZerologLevel 将 Level 映射为 zerolog.Level
func ZerologLevel(l Level) zerolog.Level {
	switch l {
	case LevelAll, LevelTrace:
		return zerolog.TraceLevel
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelOff:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// ZerologSystem 基于 zerolog 的日志后端
type ZerologSystem struct {
	name string
	base zerolog.Logger
	reg  *registry
}

// NewZerologSystem 创建输出到 w 的后端
func NewZerologSystem(w io.Writer, opts ...Option) *ZerologSystem {
	o := applyOptions("zerolog", opts...)
	return &ZerologSystem{
		name: o.name,
		base: zerolog.New(w).With().Timestamp().Logger(),
		reg:  newRegistry(o.rootLevel),
	}
}

func (s *ZerologSystem) Name() string { return s.name }

func (s *ZerologSystem) Refresh() error {
	s.reg.reset()
	return nil
}

func (s *ZerologSystem) SetLogLevel(name string, level Level) error {
	if _, ok := levelNames[level]; !ok {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "zerolog: unsupported level %d for logger %q", int(level), name)
	}
	s.reg.set(name, level)
	return nil
}

// EffectiveLevel 返回 name 当前生效的级别
func (s *ZerologSystem) EffectiveLevel(name string) Level {
	return s.reg.effective(name)
}

// Levels 返回当前覆盖表的快照
func (s *ZerologSystem) Levels() map[string]Level {
	return s.reg.snapshot()
}

// Logger 返回名为 name 的 zerolog.Logger
//
// 返回的日志器自身级别为 Trace，真正的过滤在 hook 中按命名空间级别完成。
// zerolog.SetGlobalLevel 仍然生效，默认的全局级别会过滤 TRACE。
func (s *ZerologSystem) Logger(name string) zerolog.Logger {
	ctx := s.base.With()
	if !isRoot(name) {
		ctx = ctx.Str(LoggerNameKey, name)
	}
	return ctx.Logger().Level(zerolog.TraceLevel).Hook(levelHook{name: name, reg: s.reg})
}

// levelHook 丢弃低于命名空间级别的事件
type levelHook struct {
	name string
	reg  *registry
}

func (h levelHook) Run(e *zerolog.Event, level zerolog.Level, _ string) {
	threshold := ZerologLevel(h.reg.effective(h.name))
	if threshold == zerolog.Disabled || level < threshold {
		e.Discard()
	}
}
