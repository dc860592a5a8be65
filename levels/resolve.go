package levels

import (
	"fmt"

	"github.com/ceyewan/levelconf/logging"
)

// Resolve 将配置值解析为日志级别
//
//   - 布尔值 false 解析为 OFF（YAML 解析器可能把不带引号的 OFF 读成 false）
//   - nil 与空字符串解析为 NOT_SPECIFIED
//   - 其余值取字符串形式，与级别名称做大小写敏感的精确匹配
//
// 无法匹配时返回 *InvalidLevelError。
func Resolve(prefix string, value any) (logging.Level, error) {
	switch v := value.(type) {
	case nil:
		return logging.LevelNotSpecified, nil
	case bool:
		if !v {
			return logging.LevelOff, nil
		}
	}

	s := fmt.Sprint(value)
	if s == "" {
		return logging.LevelNotSpecified, nil
	}
	if level, ok := logging.LookupLevel(s); ok {
		return level, nil
	}
	return logging.LevelNotSpecified, &InvalidLevelError{Value: value, Prefix: prefix}
}

// merge 合并两种约定的配置，规范化约定覆盖原始约定中的同名键
func merge(raw, normalized map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+len(normalized))
	for k, v := range raw {
		out[k] = v
	}
	for k, v := range normalized {
		out[k] = v
	}
	return out
}
