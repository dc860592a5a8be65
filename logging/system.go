// Package logging 定义日志级别枚举与日志后端（System）抽象，并提供 slog、zap、zerolog 三种后端实现。
//
// 每个后端维护一张"命名空间 -> 级别"的覆盖表。日志器按点分命名空间取最长前缀匹配的级别，
// 没有匹配时使用根级别：
//
//	sys := logging.NewSlogSystem(slog.NewJSONHandler(os.Stdout, nil))
//	_ = sys.SetLogLevel("com.example", logging.LevelDebug)
//
//	l := sys.Logger("com.example.orders") // 继承 com.example 的 DEBUG
//	l.Debug("visible")
//
// 级别在每次写日志时实时计算，已创建的日志器会感知之后的级别变化。
package logging

import (
	"strings"
	"sync"
)

// RootLoggerName 根日志器名称（不区分大小写）
const RootLoggerName = "root"

// System 日志后端接口
//
// 由级别配置器调用：每轮配置先调用 Refresh 重置状态，再逐个调用 SetLogLevel。
type System interface {
	// Name 返回后端名称，用于日志和指标标签
	Name() string

	// Refresh 清除所有命名空间覆盖，恢复构造时的根级别
	Refresh() error

	// SetLogLevel 为命名空间设置级别
	//
	// LevelNotSpecified 表示删除该命名空间的覆盖；
	// name 为空或 "root" 时设置根级别。
	SetLogLevel(name string, level Level) error
}

// Option 后端构造选项
type Option func(*options)

type options struct {
	name      string
	rootLevel Level
}

// WithName 设置后端名称
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithRootLevel 设置根级别，Refresh 时也会恢复为该级别。默认 LevelInfo。
func WithRootLevel(level Level) Option {
	return func(o *options) {
		if level.Specified() {
			o.rootLevel = level
		}
	}
}

func applyOptions(defaultName string, opts ...Option) *options {
	o := &options{name: defaultName, rootLevel: LevelInfo}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// registry 命名空间级别表，所有后端共用
type registry struct {
	mu          sync.RWMutex
	defaultRoot Level
	root        Level
	overrides   map[string]Level
}

func newRegistry(root Level) *registry {
	return &registry{
		defaultRoot: root,
		root:        root,
		overrides:   make(map[string]Level),
	}
}

func isRoot(name string) bool {
	return name == "" || strings.EqualFold(name, RootLoggerName)
}

func (r *registry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.root = r.defaultRoot
	clear(r.overrides)
}

func (r *registry) set(name string, level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if isRoot(name) {
		if level.Specified() {
			r.root = level
		} else {
			r.root = r.defaultRoot
		}
		return
	}
	if !level.Specified() {
		delete(r.overrides, name)
		return
	}
	r.overrides[name] = level
}

// effective 返回 name 的生效级别：最长前缀匹配，否则为根级别。
func (r *registry) effective(name string) Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if isRoot(name) {
		return r.root
	}
	for candidate := name; candidate != ""; {
		if l, ok := r.overrides[candidate]; ok {
			return l
		}
		i := strings.LastIndexByte(candidate, '.')
		if i < 0 {
			break
		}
		candidate = candidate[:i]
	}
	return r.root
}

// snapshot 返回当前覆盖表的副本，根级别以 "root" 为键。
func (r *registry) snapshot() map[string]Level {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Level, len(r.overrides)+1)
	for k, v := range r.overrides {
		out[k] = v
	}
	out[RootLoggerName] = r.root
	return out
}
