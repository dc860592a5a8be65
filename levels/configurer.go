package levels

import (
	"context"

	"github.com/ceyewan/levelconf/clog"
	"github.com/ceyewan/levelconf/config"
	"github.com/ceyewan/levelconf/logging"
	"github.com/ceyewan/levelconf/metrics"
	"github.com/ceyewan/levelconf/xerrors"
)

// Configurer 将 logger.levels 配置应用到日志后端
//
// Configurer 不做并发控制：同时调用 OnRefresh 的调用方需要自行串行化。
// Run 按顺序处理事件，天然满足这一点。
type Configurer struct {
	source  Source
	systems []logging.System
	logger  clog.Logger
	onError func(error)

	assignments metrics.Counter
	passes      metrics.Counter
	configured  metrics.Gauge
}

// New 创建配置器并立即执行一轮配置：先刷新全部后端，再应用配置的级别。
//
// 首轮配置失败时返回错误。
func New(src Source, systems []logging.System, opts ...Option) (*Configurer, error) {
	if src == nil {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "levels: source is nil")
	}
	if len(systems) == 0 {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "levels: at least one logging system is required")
	}
	for i, sys := range systems {
		if sys == nil {
			return nil, xerrors.Wrapf(xerrors.ErrInvalidInput, "levels: logging system %d is nil", i)
		}
	}

	o := &options{logger: clog.Discard(), meter: metrics.Discard()}
	for _, opt := range opts {
		opt(o)
	}

	c := &Configurer{
		source:  src,
		systems: append([]logging.System(nil), systems...),
		logger:  o.logger,
		onError: o.errorHandler,
	}
	if c.onError == nil {
		c.onError = func(err error) {
			c.logger.Error("failed to apply log levels", clog.ErrorWithCode(err, ""))
		}
	}

	var err error
	if c.assignments, err = o.meter.Counter(MetricAssignments, "Number of log level assignments applied to logging systems"); err != nil {
		return nil, xerrors.Wrap(err, "levels: create assignments counter")
	}
	if c.passes, err = o.meter.Counter(MetricPasses, "Number of log level configuration passes"); err != nil {
		return nil, xerrors.Wrap(err, "levels: create passes counter")
	}
	if c.configured, err = o.meter.Gauge(MetricConfiguredLoggers, "Number of loggers configured by the last successful pass"); err != nil {
		return nil, xerrors.Wrap(err, "levels: create configured loggers gauge")
	}

	if err := c.apply(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNew 类似 New，出错时 panic。仅用于初始化阶段。
func MustNew(src Source, systems []logging.System, opts ...Option) *Configurer {
	return xerrors.Must(New(src, systems, opts...))
}

// OnRefresh 处理配置刷新事件：刷新全部后端后重新应用级别。
//
// 相同的配置重复执行得到相同的后端状态。
func (c *Configurer) OnRefresh(ctx context.Context, ev config.Event) error {
	c.logger.DebugContext(ctx, "configuration refreshed, reapplying log levels", clog.String("source", ev.Source))
	return c.apply(ctx)
}

// Run 消费刷新事件直到 ctx 结束或 events 关闭。
//
// 单次刷新失败交给错误回调处理，不会终止循环，后续修正的配置仍能生效。
func (c *Configurer) Run(ctx context.Context, events <-chan config.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.OnRefresh(ctx, ev); err != nil {
				c.onError(err)
			}
		}
	}
}

// Configure 读取并应用配置的级别，不刷新后端。
//
// 遇到第一个无效级别即返回 *InvalidLevelError；之前已应用的级别不会回滚，之后的配置项不再应用。
// 配置项之间没有固定顺序。
func (c *Configurer) Configure(ctx context.Context) error {
	props := c.Properties()

	for prefix, value := range props {
		level, err := Resolve(prefix, value)
		if err != nil {
			c.passes.Inc(ctx, metrics.Outcome(err))
			return err
		}

		c.logger.InfoContext(ctx, "Setting log level",
			clog.String("level", level.String()),
			clog.String("logger", prefix),
		)
		for _, sys := range c.systems {
			if err := sys.SetLogLevel(prefix, level); err != nil {
				err = xerrors.Wrapf(err, "logging system %s: set level %s for logger %q", sys.Name(), level, prefix)
				c.passes.Inc(ctx, metrics.Outcome(err))
				return err
			}
			c.assignments.Inc(ctx,
				metrics.L(metrics.LabelLevel, level.String()),
				metrics.L(metrics.LabelSystem, sys.Name()),
			)
		}
	}

	c.configured.Set(ctx, float64(len(props)))
	c.passes.Inc(ctx, metrics.Outcome(nil))
	return nil
}

// Properties 返回合并后的级别配置：原始约定在前，规范化约定覆盖同名键
func (c *Configurer) Properties() map[string]any {
	raw := c.source.Properties(PropertyPrefix, config.ConventionRaw)
	normalized := c.source.Properties(PropertyPrefix, config.ConventionNormalized)
	return merge(raw, normalized)
}

// apply 刷新全部后端后应用级别
func (c *Configurer) apply(ctx context.Context) error {
	if err := c.refreshSystems(); err != nil {
		c.passes.Inc(ctx, metrics.Outcome(err))
		return err
	}
	return c.Configure(ctx)
}

func (c *Configurer) refreshSystems() error {
	for _, sys := range c.systems {
		if err := sys.Refresh(); err != nil {
			return xerrors.Wrapf(err, "logging system %s: refresh", sys.Name())
		}
	}
	return nil
}
