package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisCache is an implementation of the Cache interface using Redis.
type RedisCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisCacheConfig contains options for creating a new RedisCache.
type NewRedisCacheConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisCache connects to Redis and pings it once.
func NewRedisCache(ctx context.Context, cfg NewRedisCacheConfig, logger *zap.Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return newRedisCache(ctx, rdb, logger)
}

func newRedisCache(ctx context.Context, rdb *redis.Client, logger *zap.Logger) (*RedisCache, error) {
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	logger.Info("Connected to Redis", zap.String("address", rdb.Options().Addr))
	return &RedisCache{client: rdb, logger: logger}, nil
}

// Get retrieves a value from Redis.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	} else if err != nil {
		r.logger.Warn("Redis get failed", zap.String("key", key), zap.Error(err))
		return "", err
	}
	return val, nil
}

// Set stores a value in Redis.
func (r *RedisCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if err := r.client.Set(ctx, key, value, expiration).Err(); err != nil {
		r.logger.Warn("Redis set failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Delete removes a value from Redis.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Warn("Redis delete failed", zap.String("key", key), zap.Error(err))
		return err
	}
	return nil
}

// Close closes the underlying client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}
