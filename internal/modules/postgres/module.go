package postgres

import (
	"context"
	"zyntra/internal/models"
	"zyntra/internal/modules/config"
	"zyntra/internal/recorder"
	"zyntra/internal/runner"
	"zyntra/pkg/db"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewJournal: без DSN журнал выключен, симуляция от postgres не зависит.
func NewJournal(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (recorder.Journal, error) {
	if cfg.Postgres.DSN == "" {
		log.Info("[POSTGRES] dsn is empty, journal disabled")
		return recorder.Nop{}, nil
	}

	ctx := context.Background()
	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN:      cfg.Postgres.DSN,
		MaxConns: cfg.Postgres.MaxConns,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create poolMaster")
	}
	if err = poolMaster.Ping(ctx); err != nil {
		poolMaster.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	txm := db.NewPgTxManager(poolMaster)
	j := recorder.NewPgJournal(txm)
	if err = j.EnsureSchema(ctx); err != nil {
		txm.Close()
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			txm.Close()
			return nil
		},
	})
	return j, nil
}

func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			NewJournal,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, j recorder.Journal, r *runner.Runner, log *zap.Logger) {
			if _, off := j.(recorder.Nop); off {
				return
			}
			rec := recorder.New(j, cfg.Recorder.Every, log)
			var cancel context.CancelFunc
			var unsub func()
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					var snaps <-chan models.Snapshot
					snaps, unsub = r.Subscribe()
					go rec.Run(ctx, snaps)
					return nil
				},
				OnStop: func(context.Context) error {
					unsub()
					cancel()
					return nil
				},
			})
		}),
	)
}
