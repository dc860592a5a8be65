package levels

import (
	"fmt"

	"github.com/ceyewan/levelconf/xerrors"
)

// CodeInvalidLogLevel 无效日志级别的错误码
const CodeInvalidLogLevel = "INVALID_LOG_LEVEL"

// ErrInvalidLevel 配置值无法解析为日志级别
var ErrInvalidLevel = xerrors.Wrap(xerrors.ErrInvalidInput, "invalid log level")

// InvalidLevelError 携带出错的配置值与 logger 名称
type InvalidLevelError struct {
	Value  any
	Prefix string
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("Invalid log level: '%v' for logger: '%s'", e.Value, e.Prefix)
}

func (e *InvalidLevelError) Unwrap() error {
	return ErrInvalidLevel
}

// Code 实现 xerrors.GetCode 的错误码约定
func (e *InvalidLevelError) Code() string {
	return CodeInvalidLogLevel
}
