package cache

import (
	"context"
	"fmt"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/config"
)

// NewClient connects to the configured redis. It returns nil without error
// when REDIS_HOST is unset so that local runs work without redis.
func NewClient(ctx context.Context, cfg config.Config) (*goRedis.Client, error) {
	addr := cfg.RedisAddr()
	if addr == "" {
		log.Info().Msg("REDIS_HOST not set, caching and rate limiting disabled")
		return nil, nil
	}

	client := goRedis.NewClient(&goRedis.Options{
		Addr:     addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	log.Info().Str("addr", addr).Int("db", cfg.Redis.DB).Msg("connected to redis")
	return client, nil
}
