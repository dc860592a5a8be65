package config

import (
	"strings"

	"github.com/ceyewan/levelconf/clog"
)

// Option 配置选项模式
type Option func(*Options)

// Options 配置加载选项
type Options struct {
	Name      string      // 配置文件名称（不含扩展名）
	Paths     []string    // 配置文件搜索路径
	FileType  string      // 配置文件类型 (yaml, json)
	EnvPrefix string      // 环境变量前缀
	Logger    clog.Logger // 内部日志
	Watch     bool        // 是否监听配置文件变化
}

// defaultOptions 返回默认选项
func defaultOptions() *Options {
	return &Options{
		Name:      "config",
		Paths:     []string{".", "./config"},
		FileType:  "yaml",
		EnvPrefix: "LEVELCONF",
		Logger:    clog.Discard(),
		Watch:     true,
	}
}

// WithConfigName 设置配置文件名称（不带扩展名）
func WithConfigName(name string) Option {
	return func(o *Options) {
		o.Name = name
	}
}

// WithConfigPath 添加配置文件搜索路径
func WithConfigPath(path string) Option {
	return func(o *Options) {
		o.Paths = append(o.Paths, path)
	}
}

// WithConfigPaths 设置配置文件搜索路径（覆盖默认值）
func WithConfigPaths(paths ...string) Option {
	return func(o *Options) {
		o.Paths = paths
	}
}

// WithConfigType 设置配置文件类型 (yaml, json, toml)
func WithConfigType(typ string) Option {
	return func(o *Options) {
		o.FileType = typ
	}
}

// WithEnvPrefix 设置环境变量前缀，会被转为大写
func WithEnvPrefix(prefix string) Option {
	return func(o *Options) {
		o.EnvPrefix = strings.ToUpper(prefix)
	}
}

// WithLogger 注入日志记录器，自动添加 "config" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger.WithNamespace("config")
		}
	}
}

// WithWatch 设置是否监听配置文件变化，默认开启
func WithWatch(enabled bool) Option {
	return func(o *Options) {
		o.Watch = enabled
	}
}
