package logging

import (
	"fmt"

	"github.com/ceyewan/levelconf/xerrors"
)

// Level 日志级别枚举
//
// 除标准严重级别外还包含两个哨兵值：
//
//	LevelOff:          关闭该命名空间的全部日志
//	LevelNotSpecified: 未指定，沿用上级命名空间或根级别
//
// 零值为 LevelNotSpecified。
type Level int

const (
	LevelNotSpecified Level = iota // 未指定
	LevelAll                       // 全部输出
	LevelTrace                     // 追踪
	LevelDebug                     // 调试
	LevelInfo                      // 信息
	LevelWarn                      // 警告
	LevelError                     // 错误
	LevelOff                       // 关闭
)

var levelNames = map[Level]string{
	LevelNotSpecified: "NOT_SPECIFIED",
	LevelAll:          "ALL",
	LevelTrace:        "TRACE",
	LevelDebug:        "DEBUG",
	LevelInfo:         "INFO",
	LevelWarn:         "WARN",
	LevelError:        "ERROR",
	LevelOff:          "OFF",
}

var levelsByName = func() map[string]Level {
	m := make(map[string]Level, len(levelNames))
	for l, name := range levelNames {
		m[name] = l
	}
	return m
}()

// Levels 按严重程度返回全部级别，NOT_SPECIFIED 位于末尾。
func Levels() []Level {
	return []Level{LevelAll, LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError, LevelOff, LevelNotSpecified}
}

// String 返回级别的规范名称，例如 "DEBUG"。
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Specified 报告该级别是否为具体级别（非 NOT_SPECIFIED）。
func (l Level) Specified() bool {
	return l != LevelNotSpecified
}

// LookupLevel 按规范名称精确查找级别，大小写敏感。
//
// 空字符串不在这里处理，交由调用方决定其语义。
func LookupLevel(name string) (Level, bool) {
	l, ok := levelsByName[name]
	return l, ok
}

// ParseLevel 解析级别名称。
//
// 匹配是大小写敏感的精确匹配："debug" 不等于 "DEBUG"。
// 空字符串解析为 LevelNotSpecified。
func ParseLevel(s string) (Level, error) {
	if s == "" {
		return LevelNotSpecified, nil
	}
	if l, ok := LookupLevel(s); ok {
		return l, nil
	}
	return LevelNotSpecified, xerrors.Wrapf(xerrors.ErrInvalidInput, "unknown log level %q", s)
}
