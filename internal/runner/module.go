package runner

import (
	"context"
	"zyntra/internal/catalog"
	"zyntra/internal/modules/config"
	"zyntra/internal/modules/health/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ConfigFrom собирает конфиг раннера. Стартовая цена 0 берётся из каталога монет.
func ConfigFrom(cfg *config.Config, cat *catalog.Catalog) (Config, error) {
	m := cfg.Market
	start := m.StartPrice
	if start == 0 {
		coin, err := cat.Coin(m.Symbol)
		if err != nil {
			return Config{}, errors.Wrapf(err, "start price for %s", m.Symbol)
		}
		start = coin.Price
	}
	return Config{
		Symbol:       m.Symbol,
		StartPrice:   start,
		TickInterval: m.TickInterval,
		DriftK:       m.DriftK,
		Book:         m.Book(),
		TradeMin:     m.TradeMinInterval,
		TradeMax:     m.TradeMaxInterval,
		TapeSize:     m.TapeSize,
		Seed:         m.Seed,
		LeverageMin:  cfg.Leverage.Min,
		LeverageMax:  cfg.Leverage.Max,
	}, nil
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			ConfigFrom,
			func(cfg Config, log *zap.Logger, state *service.State) *Runner {
				return New(cfg, log, state)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner) {
			var cancel context.CancelFunc
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					r.Start(ctx)
					return nil
				},
				OnStop: func(ctx context.Context) error {
					cancel()
					select {
					case <-r.Done():
						return nil
					case <-ctx.Done():
						return ctx.Err()
					}
				},
			})
		}),
	)
}
