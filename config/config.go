package config

import (
	"context"
	"fmt"
)

// New 创建配置加载器，需要调用 Load 后才能读取配置。
func New(opts ...Option) (Loader, error) {
	options := defaultOptions()
	for _, o := range opts {
		o(options)
	}
	if options.Name == "" {
		return nil, WrapLoadError(ErrValidationFailed, "config name is empty")
	}
	if options.FileType == "" {
		options.FileType = "yaml"
	}
	return newLoader(options), nil
}

// MustLoad 创建并加载配置，出错时 panic。仅用于初始化阶段。
func MustLoad(opts ...Option) Loader {
	l, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	if err := l.Load(context.Background()); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return l
}
