// Package levels 将配置中的日志级别应用到日志后端。
//
// 配置器读取 "logger.levels" 前缀下的全部配置项，把每个值解析为 logging.Level，
// 再广播到所有注册的 logging.System。构造时立即执行一次，之后每次配置刷新重新执行：
//
//	loader := config.MustLoad(config.WithConfigPaths("./config"))
//	c, err := levels.New(loader, []logging.System{slogSys, zapSys},
//		levels.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//
//	events, _ := loader.Subscribe(ctx)
//	go c.Run(ctx, events)
//
// 配置示例（YAML）：
//
//	logger:
//	  levels:
//	    root: INFO
//	    com.example: DEBUG
//	    com.example.noisy: OFF
package levels

import "github.com/ceyewan/levelconf/config"

// PropertyPrefix 日志级别配置项的前缀
const PropertyPrefix = "logger.levels"

// Source 配置来源
//
// 同一前缀需要以两种键约定读取：原始约定保留大小写，规范化约定承载环境变量等覆盖。
type Source interface {
	Properties(prefix string, conv config.Convention) map[string]any
}
