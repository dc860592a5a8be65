package clog

import (
	"log/slog"

	"github.com/ceyewan/levelconf/xerrors"
)

// New 创建一个新的 Logger 实例
//
// config - 日志配置，如果为 nil 会使用开发环境默认配置
// opts   - 函数式选项列表，用于命名空间、Context 字段等配置
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = NewDevDefaultConfig()
	}

	if err := config.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid config")
	}

	return newLogger(config, applyOptions(opts...))
}

// Must 类似 New，出错时 panic。仅用于初始化阶段。
func Must(config *Config, opts ...Option) Logger {
	l, err := New(config, opts...)
	if err != nil {
		panic(err)
	}
	return l
}

// NewHandler 按配置创建底层 slog.Handler，供需要直接使用 slog 的后端复用输出格式。
func NewHandler(config *Config, opts ...Option) (slog.Handler, error) {
	if config == nil {
		config = NewDevDefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid config")
	}
	h, err := newHandler(config, applyOptions(opts...))
	if err != nil {
		return nil, err
	}
	return h, nil
}
