package clog

import (
	"strings"

	"github.com/ceyewan/levelconf/logging"
	"github.com/ceyewan/levelconf/xerrors"
)

const timeFormat = "2006-01-02T15:04:05.000Z07:00"

// Config 日志配置结构，定义日志的基本行为
//
//	Level:      日志级别 (trace|debug|info|warn|error|off)，不区分大小写
//	Format:     输出格式 (json|console)
//	Output:     输出目标 (stdout|stderr|文件路径)
//	AddSource:  是否显示调用位置信息
//	SourceRoot: 源代码路径前缀，用于裁剪显示的文件路径
type Config struct {
	Level      string `json:"level" yaml:"level" mapstructure:"level"`
	Format     string `json:"format" yaml:"format" mapstructure:"format"`
	Output     string `json:"output" yaml:"output" mapstructure:"output"`
	AddSource  bool   `json:"addSource" yaml:"addSource" mapstructure:"add_source"`
	SourceRoot string `json:"sourceRoot" yaml:"sourceRoot" mapstructure:"source_root"`
}

// NewDevDefaultConfig 开发环境默认配置：debug 级别，console 格式
func NewDevDefaultConfig() *Config {
	return &Config{
		Level:     "debug",
		Format:    "console",
		Output:    "stdout",
		AddSource: true,
	}
}

// NewProdDefaultConfig 生产环境默认配置：info 级别，json 格式
func NewProdDefaultConfig() *Config {
	return &Config{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}
}

// parsedLevel 解析配置中的级别，不区分大小写
func (c *Config) parsedLevel() (logging.Level, error) {
	l, err := logging.ParseLevel(strings.ToUpper(c.Level))
	if err != nil {
		return logging.LevelInfo, xerrors.Wrapf(err, "invalid log level %q", c.Level)
	}
	if !l.Specified() {
		return logging.LevelInfo, nil
	}
	return l, nil
}

// validate 设置默认值并验证配置（内部使用）
func (c *Config) validate() error {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stdout"
	}

	if _, err := c.parsedLevel(); err != nil {
		return err
	}
	format := strings.ToLower(c.Format)
	if format != "json" && format != "console" {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "invalid format %q, must be json or console", c.Format)
	}
	return nil
}
