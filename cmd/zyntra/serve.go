package main

import (
	"context"
	"zyntra/internal/assistant"
	"zyntra/internal/catalog"
	apimodule "zyntra/internal/modules/api"
	"zyntra/internal/modules/config"
	"zyntra/internal/modules/health"
	"zyntra/internal/modules/postgres"
	telegram "zyntra/internal/modules/telegram_bot"
	"zyntra/internal/runner"
	"zyntra/pkg/logger"
	"zyntra/pkg/tracing"

	"github.com/opentracing/opentracing-go"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const serviceName = "zyntra"

func newServeCmd() *cobra.Command {
	var cfgFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the market simulation with HTTP API, websocket feed and notifier",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config.ModuleFrom(cfgFile),
				fx.Provide(
					newLogger,
					newTracer,
					catalog.New,
				),
				fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
					return &fxevent.ZapLogger{Logger: l.Named("fx")}
				}),
				fx.Invoke(func(opentracing.Tracer) {}),
				health.Module(),
				runner.Module(),
				postgres.Module(),
				assistant.Module(),
				telegram.Module(),
				apimodule.Module(),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is configs/$CONFIG_FILE or configs/values_local.yaml)")
	return cmd
}

func newLogger(lc fx.Lifecycle, cfg *config.Config) (*zap.Logger, error) {
	logger.SetServiceName(serviceName)
	l, err := logger.Init(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = l.Sync()
			return nil
		},
	})
	return l, nil
}

func newTracer(lc fx.Lifecycle, cfg *config.Config) (opentracing.Tracer, error) {
	tracing.SetServiceName(serviceName)
	tracer, closer, err := tracing.InitTracer(tracing.Config{
		Enabled: cfg.Tracing.Enabled,
		Host:    cfg.Tracing.Host,
		Port:    cfg.Tracing.Port,
	})
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			closer()
			return nil
		},
	})
	return tracer, nil
}
