package levels

import (
	"github.com/ceyewan/levelconf/clog"
	"github.com/ceyewan/levelconf/metrics"
)

// 指标名称
const (
	// MetricAssignments 级别设置次数 (Counter)
	MetricAssignments = "loglevel_assignments_total"

	// MetricPasses 配置轮次 (Counter)
	MetricPasses = "loglevel_passes_total"

	// MetricConfiguredLoggers 最近一轮成功配置的 logger 数量 (Gauge)
	MetricConfiguredLoggers = "loglevel_configured_loggers"
)

// Option 配置器选项
type Option func(*options)

type options struct {
	logger       clog.Logger
	meter        metrics.Meter
	errorHandler func(error)
}

// WithLogger 注入日志记录器，自动添加 "levels" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("levels")
		}
	}
}

// WithMeter 注入指标 Meter
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.meter = meter
		}
	}
}

// WithErrorHandler 设置 Run 中刷新失败时的回调，默认记录 Error 日志
func WithErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}
