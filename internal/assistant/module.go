package assistant

import (
	"context"
	"zyntra/internal/modules/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewCache: redis, если задан адрес, иначе без кэша.
func NewCache(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) Cache {
	if cfg.Redis.Addr == "" || cfg.Assistant.CacheTTL <= 0 {
		return NopCache{}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := rdb.Ping(ctx).Err(); err != nil {
				log.Warn("[ASSISTANT] redis unavailable, replies are not cached", zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return rdb.Close()
		},
	})
	return NewRedisCache(rdb, cfg.Assistant.CacheTTL, log)
}

func NewFromConfig(cfg *config.Config, cache Cache, log *zap.Logger) *Client {
	a := cfg.Assistant
	if a.APIKey == "" {
		log.Info("[ASSISTANT] api key is empty, chat answers with the fallback text")
	}
	return New(Config{
		APIKey:       a.APIKey,
		Model:        a.Model,
		Endpoint:     a.Endpoint,
		SystemPrompt: a.SystemPrompt,
		Timeout:      a.Timeout,
		RPS:          a.RPS,
		Burst:        a.Burst,
	}, cache, log)
}

func Module() fx.Option {
	return fx.Module("assistant",
		fx.Provide(
			NewCache,
			NewFromConfig,
		),
	)
}
