package cache

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"meal-planner/internal/infrastructure/config"
)

const redisKeyPrefix = "meal-planner:prefill:"

// Redis is the cache backend for multi-process deployments.
type Redis struct {
	client *redis.Client
	cfg    config.CacheConfig
}

// NewRedis connects to Redis and verifies the connection.
func NewRedis(cfg config.CacheConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client, cfg: cfg}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	value, err := r.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (r *Redis) Set(ctx context.Context, key, value string) error {
	return r.client.Set(ctx, redisKeyPrefix+key, value, r.cfg.TTL).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, redisKeyPrefix+key).Err()
}

// Stats reports pool-level counters; Redis keeps its own hit/miss stats
// server side.
func (r *Redis) Stats() map[string]interface{} {
	pool := r.client.PoolStats()
	return map[string]interface{}{
		"backend":     "redis",
		"pool_hits":   pool.Hits,
		"pool_misses": pool.Misses,
		"pool_conns":  pool.TotalConns,
	}
}

func (r *Redis) Close() error {
	return r.client.Close()
}
