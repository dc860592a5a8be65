package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ceyewan/levelconf/clog"
	"github.com/ceyewan/levelconf/config"
)

type rootOptions struct {
	configName string
	configPath []string
	configType string
	envPrefix  string
	logFormat  string
	logLevel   string
}

func buildRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "levelconf",
		Short:        "Apply logger.levels configuration to logging backends",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configName, "config-name", "config", "config file name without extension")
	flags.StringSliceVar(&opts.configPath, "config-path", []string{".", "./config"}, "directories searched for the config file")
	flags.StringVar(&opts.configType, "config-type", "yaml", "config file type (yaml|json|toml)")
	flags.StringVar(&opts.envPrefix, "env-prefix", "LEVELCONF", "prefix of environment variable overrides")
	flags.StringVar(&opts.logFormat, "log-format", "console", "log output format (console|json)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "level of levelconf's own logs")

	cmd.AddCommand(buildCheckCmd(opts), buildWatchCmd(opts))
	return cmd
}

func (o *rootOptions) clogConfig() *clog.Config {
	return &clog.Config{
		Level:  o.logLevel,
		Format: o.logFormat,
		Output: "stderr",
	}
}

func (o *rootOptions) newLogger() (clog.Logger, error) {
	return clog.New(o.clogConfig(), clog.WithNamespace("levelconf"), clog.WithTraceContext())
}

func (o *rootOptions) loadConfig(ctx context.Context, logger clog.Logger, watch bool) (config.Loader, error) {
	loader, err := config.New(
		config.WithConfigName(o.configName),
		config.WithConfigPaths(o.configPath...),
		config.WithConfigType(o.configType),
		config.WithEnvPrefix(o.envPrefix),
		config.WithLogger(logger),
		config.WithWatch(watch),
	)
	if err != nil {
		return nil, err
	}
	if err := loader.Load(ctx); err != nil {
		return nil, err
	}
	return loader, nil
}
