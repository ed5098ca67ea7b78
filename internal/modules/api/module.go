package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
	"zyntra/internal/api"
	"zyntra/internal/assistant"
	"zyntra/internal/catalog"
	"zyntra/internal/feed"
	"zyntra/internal/modules/config"
	"zyntra/internal/modules/health/service"
	"zyntra/internal/recorder"
	"zyntra/internal/runner"
	"zyntra/internal/sim"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewHandler(
	cfg *config.Config,
	r *runner.Runner,
	cat *catalog.Catalog,
	ai *assistant.Client,
	journal recorder.Journal,
	state *service.State,
	log *zap.Logger,
) *api.Handler {
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	seed := cfg.Market.Seed
	if seed != 0 {
		seed += 2
	}
	h := api.NewHandler(r, cat, ai, journal, api.Settings{
		Symbol:           cfg.Market.Symbol,
		ChartInterval:    cfg.Market.ChartInterval,
		ChartTheme:       cfg.Market.ChartTheme,
		CompoundBonusPct: cfg.Staking.CompoundBonusPct,
		StakeDelay:       cfg.Staking.ConfirmDelay,
		AuthDelay:        cfg.Auth.Delay,
	}, sim.NewSource(seed), log)

	h.Mount("/ws", feed.New(r, state, api.MarketView, log))
	return h
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, h *api.Handler, log *zap.Logger) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			log.Info("[API] listening", zap.String("addr", addr))
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					log.Error("[API] serve failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("api",
		fx.Provide(
			NewHandler,
		),
		fx.Invoke(RunHTTP),
	)
}
