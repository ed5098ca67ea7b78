package telegram

import (
	"context"
	"zyntra/internal/models"
	"zyntra/internal/modules/config"
	"zyntra/internal/notify"
	"zyntra/internal/runner"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewNotifier: телеграм, если заданы токен и chat id, иначе всё в лог.
func NewNotifier(lc fx.Lifecycle, cfg *config.Config, r *runner.Runner, log *zap.Logger) (notify.Notifier, error) {
	if cfg.Telegram.Token == "" || cfg.Telegram.ChatID == 0 {
		log.Info("[NOTIFY] telegram is not configured, alerts go to the log")
		return notify.NewStdout(log), nil
	}
	t, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, r, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return t.Start(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			t.Stop()
			return nil
		},
	})
	return t, nil
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			NewNotifier,
		),
		// Риск-вотчер читает снапшоты в своей горутине.
		fx.Invoke(
			func(lc fx.Lifecycle, n notify.Notifier, r *runner.Runner, cfg *config.Config) {
				w := notify.NewRiskWatcher(n, cfg.Risk.WarnPct)
				var cancel context.CancelFunc
				var unsub func()
				lc.Append(fx.Hook{
					OnStart: func(context.Context) error {
						var ctx context.Context
						ctx, cancel = context.WithCancel(context.Background())
						var snaps <-chan models.Snapshot
						snaps, unsub = r.Subscribe()
						go func() {
							for {
								select {
								case <-ctx.Done():
									return
								case snap := <-snaps:
									w.Observe(snap)
								}
							}
						}()
						return nil
					},
					OnStop: func(context.Context) error {
						unsub()
						cancel()
						return nil
					},
				})
			},
		),
	)
}
