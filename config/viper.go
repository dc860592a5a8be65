package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/levelconf/clog"
	"github.com/ceyewan/levelconf/xerrors"
)

// loader 实现 Loader 接口
type loader struct {
	v      *viper.Viper
	opts   *Options
	logger clog.Logger

	reloadMu sync.Mutex // 串行化 Reload 与文件变更回调对 viper 的写入

	mu          sync.RWMutex
	watches     map[string][]chan Event
	oldValues   map[string]any
	subscribers []chan Event
	raw         map[string]any // 保留大小写、已展平的配置
	overrides   map[string]any // Set 写入的值，键为小写
}

func newLoader(opts *Options) *loader {
	return &loader{
		v:         viper.New(),
		opts:      opts,
		logger:    opts.Logger,
		watches:   make(map[string][]chan Event),
		oldValues: make(map[string]any),
		raw:       make(map[string]any),
		overrides: make(map[string]any),
	}
}

// Load 初始化并从所有来源加载配置
func (l *loader) Load(ctx context.Context) error {
	// 1. 配置 Viper
	l.v.SetConfigName(l.opts.Name)
	l.v.SetConfigType(l.opts.FileType)
	for _, path := range l.opts.Paths {
		l.v.AddConfigPath(path)
	}

	// 2. 环境变量设置（最高优先级）
	l.v.SetEnvPrefix(l.opts.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	// 3. .env 文件写入进程环境变量
	if err := l.loadDotEnv(); err != nil {
		l.logger.Debug("no .env file loaded", clog.Error(err))
	}

	// 4. 基础配置（最低优先级）
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !xerrors.As(err, &notFound) {
			return xerrors.Wrapf(err, "failed to read config file %s", l.opts.Name)
		}
		l.logger.Warn("no configuration file found", clog.String("name", l.opts.Name))
	}

	// 5. 环境特定配置（中等优先级）
	if err := l.loadEnvironmentConfig(); err != nil {
		return err
	}

	// 6. 验证配置
	if err := l.Validate(); err != nil {
		return err
	}

	// 7. 保存当前值作为基线
	l.captureCurrentValues()

	// 8. 启动文件监听
	if l.opts.Watch && l.v.ConfigFileUsed() != "" {
		l.v.OnConfigChange(func(e fsnotify.Event) {
			l.logger.Info("configuration file changed", clog.String("file", e.Name), clog.String("op", e.Op.String()))
			l.reloadMu.Lock()
			err := l.refresh()
			l.reloadMu.Unlock()
			if err != nil {
				l.logger.Error("failed to refresh configuration", clog.Error(err))
				return
			}
			l.notify(SourceFile)
		})
		l.v.WatchConfig()
	}

	return nil
}

// Reload 重新读取全部配置并通知监听者
func (l *loader) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.reloadMu.Lock()
	defer l.reloadMu.Unlock()
	if l.v.ConfigFileUsed() != "" {
		if err := l.v.ReadInConfig(); err != nil {
			return xerrors.Wrapf(err, "failed to reread config file %s", l.v.ConfigFileUsed())
		}
	}
	if err := l.refresh(); err != nil {
		return err
	}
	l.notify(SourceReload)
	return nil
}

// refresh 在基础配置已重新读取后，补齐环境特定配置与 .env
func (l *loader) refresh() error {
	if err := l.loadDotEnv(); err != nil {
		l.logger.Debug("no .env file reloaded", clog.Error(err))
	}
	return l.loadEnvironmentConfig()
}

// loadDotEnv 尝试从当前目录和搜索路径加载 .env 文件
func (l *loader) loadDotEnv() error {
	var envLoaded bool
	var lastErr error

	candidates := []string{".env"}
	for _, path := range l.opts.Paths {
		candidates = append(candidates, filepath.Join(path, ".env"))
	}
	for _, file := range candidates {
		if err := godotenv.Load(file); err == nil {
			envLoaded = true
		} else {
			lastErr = err
		}
	}

	if !envLoaded && lastErr != nil {
		return lastErr
	}
	return nil
}

// loadEnvironmentConfig 合并 <name>.<env>.<ext>，并重建原始配置树
func (l *loader) loadEnvironmentConfig() error {
	tree := make(map[string]any)
	if base := l.v.ConfigFileUsed(); base != "" {
		if err := mergeRawFile(tree, base); err != nil {
			return err
		}
	}

	if env := os.Getenv(fmt.Sprintf("%s_ENV", l.opts.EnvPrefix)); env != "" {
		envConfigName := fmt.Sprintf("%s.%s", l.opts.Name, env)
		file := l.findConfigFile(envConfigName)
		if file == "" {
			l.logger.Info("no environment configuration file found", clog.String("env", env))
		} else {
			data, err := os.ReadFile(file)
			if err != nil {
				return xerrors.Wrapf(err, "failed to read environment config %s", file)
			}
			if err := l.v.MergeConfig(bytes.NewReader(data)); err != nil {
				return xerrors.Wrapf(err, "failed to merge environment config %s", envConfigName)
			}
			if err := mergeRawFile(tree, file); err != nil {
				return err
			}
			l.logger.Info("loaded environment configuration", clog.String("env", env))
		}
	}

	l.mu.Lock()
	l.raw = flatten(tree)
	l.mu.Unlock()
	return nil
}

// findConfigFile 在搜索路径中查找 name.<FileType>
func (l *loader) findConfigFile(name string) string {
	exts := []string{l.opts.FileType}
	if l.opts.FileType == "yaml" {
		exts = append(exts, "yml")
	}
	for _, dir := range l.opts.Paths {
		for _, ext := range exts {
			file := filepath.Join(dir, name+"."+ext)
			if info, err := os.Stat(file); err == nil && !info.IsDir() {
				return file
			}
		}
	}
	return ""
}

// captureCurrentValues 保存当前配置值用于变更检测
func (l *loader) captureCurrentValues() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key := range l.watches {
		l.oldValues[key] = l.v.Get(key)
	}
}

// Get 根据 key 获取配置值
func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

// Set 覆盖配置值
func (l *loader) Set(key string, value any) {
	l.v.Set(key, value)

	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := toStringMap(value); ok && len(m) > 0 {
		for k, v := range flatten(m) {
			l.overrides[strings.ToLower(key+"."+k)] = v
		}
		return
	}
	l.overrides[strings.ToLower(key)] = value
}

// Properties 按前缀读取配置
//
// 两种约定都基于保留大小写的配置树，不经过 viper 的键查找：
// viper 在 AutomaticEnv 下会用环境变量遮蔽同一路径下的嵌套键。
func (l *loader) Properties(prefix string, conv Convention) map[string]any {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if conv == ConventionRaw {
		return underPrefix(l.raw, prefix)
	}
	return l.normalizedProperties(prefix)
}

// normalizedProperties 依次合并小写化的配置树、Set 覆盖与 <ENVPREFIX>_<PREFIX>_<NAME> 环境变量。
// 调用方需持有 l.mu。
func (l *loader) normalizedProperties(prefix string) map[string]any {
	out := make(map[string]any)
	for name, v := range underPrefix(l.raw, prefix) {
		out[strings.ToLower(name)] = v
	}
	for name, v := range underPrefix(l.overrides, prefix) {
		out[strings.ToLower(name)] = v
	}

	envPrefix := strings.ToUpper(strings.ReplaceAll(prefix, ".", "_")) + "_"
	if l.opts.EnvPrefix != "" {
		envPrefix = l.opts.EnvPrefix + "_" + envPrefix
	}
	for _, kv := range os.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if name, ok := strings.CutPrefix(key, envPrefix); ok && name != "" {
			out[strings.ToLower(strings.ReplaceAll(name, "_", "."))] = value
		}
	}
	return out
}

// Unmarshal 将整个配置反序列化到结构体
func (l *loader) Unmarshal(v any) error {
	return l.v.Unmarshal(v)
}

// UnmarshalKey 将特定配置 key 反序列化到结构体
func (l *loader) UnmarshalKey(key string, v any) error {
	return l.v.UnmarshalKey(key, v)
}

// Watch 订阅特定配置 key 的变更
func (l *loader) Watch(ctx context.Context, key string) (<-chan Event, error) {
	if key == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "watch key is empty")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan Event, 10)
	l.watches[key] = append(l.watches[key], ch)
	l.oldValues[key] = l.v.Get(key)

	go func() {
		<-ctx.Done()
		l.removeWatch(key, ch)
	}()

	return ch, nil
}

// Subscribe 订阅所有刷新事件
func (l *loader) Subscribe(ctx context.Context) (<-chan Event, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan Event, 10)
	l.subscribers = append(l.subscribers, ch)

	go func() {
		<-ctx.Done()
		l.removeSubscriber(ch)
	}()

	return ch, nil
}

// removeWatch 从注册表中移除监听通道并关闭
func (l *loader) removeWatch(key string, ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	chans := l.watches[key]
	for i, c := range chans {
		if c == ch {
			l.watches[key] = append(chans[:i], chans[i+1:]...)
			close(ch)
			break
		}
	}
	if len(l.watches[key]) == 0 {
		delete(l.watches, key)
		delete(l.oldValues, key)
	}
}

func (l *loader) removeSubscriber(ch chan Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, c := range l.subscribers {
		if c == ch {
			l.subscribers = append(l.subscribers[:i], l.subscribers[i+1:]...)
			close(ch)
			return
		}
	}
}

// Validate 验证配置
//
// 以配置树为准判断是否为空：环境变量遮蔽嵌套键时 viper 的 AllSettings 可能为空。
func (l *loader) Validate() error {
	l.mu.RLock()
	empty := len(l.raw) == 0 && len(l.overrides) == 0
	l.mu.RUnlock()

	if empty && len(l.v.AllSettings()) == 0 {
		return xerrors.Wrap(ErrValidationFailed, "configuration is empty")
	}
	return nil
}

// notify 通知所有订阅者以及值发生变化的 key 监听者
func (l *loader) notify(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for _, ch := range l.subscribers {
		select {
		case ch <- Event{Source: source, Timestamp: now}:
		default:
			l.logger.Warn("subscriber channel is full, dropping refresh event")
		}
	}

	for key, channels := range l.watches {
		newValue := l.v.Get(key)
		oldValue := l.oldValues[key]
		if reflect.DeepEqual(oldValue, newValue) {
			continue
		}

		event := Event{
			Key:       key,
			Value:     newValue,
			OldValue:  oldValue,
			Source:    source,
			Timestamp: now,
		}
		l.oldValues[key] = newValue

		for _, ch := range channels {
			select {
			case ch <- event:
			default:
				l.logger.Warn("watch channel is full", clog.String("key", key))
			}
		}
	}
}
