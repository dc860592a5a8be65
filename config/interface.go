// Package config 提供统一的配置加载能力，基于 Viper 实现。
// 支持多源配置加载、热更新，以及按前缀读取原始/规范化两种键约定的配置项。
//
// 特性：
//   - 多源配置加载：YAML/JSON 文件、环境变量、.env 文件
//   - 配置优先级：环境变量 > .env > 环境特定配置 > 基础配置
//   - 热更新支持：监听配置文件变化，通过 Watch/Subscribe 通知应用
//   - 两种键约定：Raw 保留原始大小写，Normalized 为小写并支持环境变量覆盖
//
// 基本使用：
//
//	loader := config.MustLoad(
//		config.WithConfigName("config"),
//		config.WithConfigPaths("./config"),
//		config.WithEnvPrefix("LEVELCONF"),
//	)
//
//	// 按前缀读取
//	raw := loader.Properties("logger.levels", config.ConventionRaw)
//
//	// 订阅刷新事件
//	ch, _ := loader.Subscribe(ctx)
//	for event := range ch {
//		fmt.Printf("配置刷新: source=%s\n", event.Source)
//	}
package config

import (
	"context"
	"time"
)

// Convention 配置键约定
type Convention int

const (
	// ConventionNormalized 规范化约定：键全部小写，环境变量与 Set 覆盖生效
	ConventionNormalized Convention = iota
	// ConventionRaw 原始约定：保留配置文件中的大小写
	ConventionRaw
)

func (c Convention) String() string {
	if c == ConventionRaw {
		return "raw"
	}
	return "normalized"
}

// 事件来源
const (
	SourceFile   = "file"
	SourceReload = "reload"
)

// Loader 定义配置加载器的核心行为
// 职责：加载、解析和监听配置变化
//
// Properties、Watch、Subscribe 可与文件热更新并发调用。Get、Unmarshal、UnmarshalKey
// 直接读取 viper，而 viper 不是并发安全的：开启文件监听时，这三个方法不应与热更新并发调用。
type Loader interface {
	// Load 加载配置并初始化内部状态，同时启动文件监听
	Load(ctx context.Context) error

	// Reload 重新读取配置文件并通知所有监听者
	Reload(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Set 以最高优先级覆盖配置值，在 Properties 中仅影响规范化约定
	Set(key string, value any)

	// Properties 返回 prefix 下的全部配置项，键为去掉 "prefix." 后的部分
	Properties(prefix string, conv Convention) map[string]any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Watch 监听指定 key 的值变化，通过 context 取消监听
	Watch(ctx context.Context, key string) (<-chan Event, error)

	// Subscribe 订阅每一次配置刷新，通过 context 取消订阅
	Subscribe(ctx context.Context) (<-chan Event, error)

	// Validate 验证当前配置的有效性
	Validate() error
}

// Event 配置变更事件
//
// Subscribe 收到的事件 Key 为空。
type Event struct {
	Key       string // 配置 key
	Value     any    // 新值
	OldValue  any    // 旧值
	Source    string // "file" | "reload"
	Timestamp time.Time
}
