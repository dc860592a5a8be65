// Command levelconf 从配置中读取 logger.levels 并应用到日志后端。
//
//	levelconf check --config-path ./config
//	levelconf watch --config-path ./config --metrics-port 9090
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := buildRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
