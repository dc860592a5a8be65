package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ceyewan/levelconf/clog"
	"github.com/ceyewan/levelconf/config"
	"github.com/ceyewan/levelconf/levels"
	"github.com/ceyewan/levelconf/logging"
	"github.com/ceyewan/levelconf/metrics"
	"github.com/ceyewan/levelconf/xerrors"
)

type watchOptions struct {
	metricsPort   int
	probes        []string
	probeInterval time.Duration
}

func buildWatchCmd(root *rootOptions) *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Apply logger.levels and re-apply on every configuration change",
		Long: "watch applies logger.levels to slog, zap and zerolog backends and re-applies them " +
			"whenever the config file changes or the process receives SIGHUP.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), root, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.metricsPort, "metrics-port", 0, "serve Prometheus metrics on this port (0 disables)")
	flags.StringSliceVar(&opts.probes, "probe", nil, "logger names that emit a record at every severity on each probe tick")
	flags.DurationVar(&opts.probeInterval, "probe-interval", 10*time.Second, "interval between probe records")
	return cmd
}

type backends struct {
	slog    *logging.SlogSystem
	zap     *logging.ZapSystem
	zerolog *logging.ZerologSystem
}

func (b *backends) systems() []logging.System {
	return []logging.System{b.slog, b.zap, b.zerolog}
}

func newBackends(root *rootOptions) (*backends, error) {
	handler, err := clog.NewHandler(root.clogConfig())
	if err != nil {
		return nil, err
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.Lock(os.Stdout),
		zapcore.DebugLevel,
	)
	return &backends{
		slog:    logging.NewSlogSystem(handler),
		zap:     logging.NewZapSystem(core),
		zerolog: logging.NewZerologSystem(os.Stdout),
	}, nil
}

func runWatch(ctx context.Context, root *rootOptions, opts *watchOptions) error {
	logger, err := root.newLogger()
	if err != nil {
		return err
	}
	defer logger.Flush()

	meter := metrics.Discard()
	if opts.metricsPort > 0 {
		cfg := metrics.NewProdDefaultConfig("levelconf", "")
		cfg.Port = opts.metricsPort
		if meter, err = metrics.New(cfg, metrics.WithLogger(logger)); err != nil {
			return err
		}
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meter.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics shutdown failed", clog.Error(err))
		}
	}()

	loader, err := root.loadConfig(ctx, logger, true)
	if err != nil {
		return err
	}

	b, err := newBackends(root)
	if err != nil {
		return err
	}

	configurer, err := levels.New(loader, b.systems(),
		levels.WithLogger(logger),
		levels.WithMeter(meter),
	)
	if err != nil {
		return err
	}

	events, err := loader.Subscribe(ctx)
	if err != nil {
		return err
	}

	go reloadOnHangup(ctx, loader, logger)
	if len(opts.probes) > 0 && opts.probeInterval > 0 {
		go probe(ctx, b, opts.probes, opts.probeInterval)
	}

	logger.Info("watching logger.levels", clog.Int("systems", len(b.systems())))
	err = configurer.Run(ctx, events)
	if errors.Is(err, context.Canceled) {
		logger.Info("shutting down")
		return nil
	}
	return err
}

// reloadOnHangup 收到 SIGHUP 时重新读取配置文件
func reloadOnHangup(ctx context.Context, loader config.Loader, logger clog.Logger) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			logger.Info("received SIGHUP, reloading configuration")
			if err := loader.Reload(ctx); err != nil {
				logger.Error("reload failed", clog.Error(xerrors.Wrap(err, "reload configuration")))
			}
		}
	}
}

// probe 定期在每个后端以全部严重级别输出一条记录，用于观察级别配置的效果
func probe(ctx context.Context, b *backends, names []string, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, name := range names {
				sl := b.slog.Logger(name)
				sl.Log(ctx, logging.SlogLevel(logging.LevelTrace), "probe")
				sl.DebugContext(ctx, "probe")
				sl.InfoContext(ctx, "probe")
				sl.WarnContext(ctx, "probe")
				sl.ErrorContext(ctx, "probe")

				zl := b.zap.Logger(name)
				zl.Debug("probe")
				zl.Info("probe")
				zl.Warn("probe")
				zl.Error("probe")

				rl := b.zerolog.Logger(name)
				rl.Trace().Msg("probe")
				rl.Debug().Msg("probe")
				rl.Info().Msg("probe")
				rl.Warn().Msg("probe")
				rl.Error().Msg("probe")
			}
		}
	}
}
