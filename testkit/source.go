package testkit

import (
	"strings"
	"sync"

	"github.com/ceyewan/levelconf/config"
)

// StaticSource 内存中的配置来源
//
// 键为完整的配置路径（如 "logger.levels.com.example"），按约定分别存放。
type StaticSource struct {
	mu         sync.RWMutex
	raw        map[string]any
	normalized map[string]any
}

// NewStaticSource 创建空的配置来源
func NewStaticSource() *StaticSource {
	return &StaticSource{raw: map[string]any{}, normalized: map[string]any{}}
}

// SetRaw 设置原始约定下的配置值
func (s *StaticSource) SetRaw(key string, value any) *StaticSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[key] = value
	return s
}

// SetNormalized 设置规范化约定下的配置值
func (s *StaticSource) SetNormalized(key string, value any) *StaticSource {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.normalized[key] = value
	return s
}

// Clear 清空全部配置
func (s *StaticSource) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = map[string]any{}
	s.normalized = map[string]any{}
}

// Properties 返回 prefix 下的配置，键去掉 "prefix." 前缀
func (s *StaticSource) Properties(prefix string, conv config.Convention) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.normalized
	if conv == config.ConventionRaw {
		src = s.raw
	}
	out := make(map[string]any)
	for k, v := range src {
		if name, ok := strings.CutPrefix(k, prefix+"."); ok && name != "" {
			out[name] = v
		}
	}
	return out
}
