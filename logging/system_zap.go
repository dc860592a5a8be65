package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ceyewan/levelconf/xerrors"
)

// ZapLevel 将 Level 映射为 zapcore.Level
//
// zap 没有 TRACE，ALL 与 TRACE 都映射为 DebugLevel；OFF 的第二个返回值为 false。
func ZapLevel(l Level) (zapcore.Level, bool) {
	switch l {
	case LevelAll, LevelTrace, LevelDebug:
		return zapcore.DebugLevel, true
	case LevelWarn:
		return zapcore.WarnLevel, true
	case LevelError:
		return zapcore.ErrorLevel, true
	case LevelOff:
		return zapcore.InvalidLevel, false
	default:
		return zapcore.InfoLevel, true
	}
}

// ZapSystem 基于 zap 的日志后端
type ZapSystem struct {
	name string
	core zapcore.Core
	reg  *registry
}

// NewZapSystem 以 core 作为输出创建后端
//
// core 自身的级别过滤会被绕过，建议以 zapcore.DebugLevel 构造。
func NewZapSystem(core zapcore.Core, opts ...Option) *ZapSystem {
	o := applyOptions("zap", opts...)
	return &ZapSystem{
		name: o.name,
		core: core,
		reg:  newRegistry(o.rootLevel),
	}
}

func (s *ZapSystem) Name() string { return s.name }

func (s *ZapSystem) Refresh() error {
	s.reg.reset()
	return nil
}

func (s *ZapSystem) SetLogLevel(name string, level Level) error {
	if _, ok := levelNames[level]; !ok {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "zap: unsupported level %d for logger %q", int(level), name)
	}
	s.reg.set(name, level)
	return nil
}

// EffectiveLevel 返回 name 当前生效的级别
func (s *ZapSystem) EffectiveLevel(name string) Level {
	return s.reg.effective(name)
}

// Levels 返回当前覆盖表的快照
func (s *ZapSystem) Levels() map[string]Level {
	return s.reg.snapshot()
}

// Enabler 返回 name 对应的 zapcore.LevelEnabler
func (s *ZapSystem) Enabler(name string) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		threshold, ok := ZapLevel(s.reg.effective(name))
		return ok && l >= threshold
	})
}

// Logger 返回名为 name 的 zap.Logger
func (s *ZapSystem) Logger(name string, opts ...zap.Option) *zap.Logger {
	l := zap.New(&namedCore{Core: s.core, enab: s.Enabler(name)}, opts...)
	if !isRoot(name) {
		l = l.Named(name)
	}
	return l
}

// namedCore 用命名空间级别替换 core 的级别判断
type namedCore struct {
	zapcore.Core
	enab zapcore.LevelEnabler
}

func (c *namedCore) Enabled(l zapcore.Level) bool {
	return c.enab.Enabled(l)
}

func (c *namedCore) With(fields []zapcore.Field) zapcore.Core {
	return &namedCore{Core: c.Core.With(fields), enab: c.enab}
}

func (c *namedCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}
