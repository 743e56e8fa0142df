package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Redis is a Cache backed by a shared Redis instance, for deployments that
// run several dashboard replicas. Values are stored as JSON under
// prefix+key; expiry is delegated to Redis.
type Redis[T any] struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// RedisOptions configures the connection used by NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient opens a go-redis client with conservative timeouts. The
// connection is established lazily on first use.
func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     10,
	})
}

// NewRedis wraps client as a Cache of T namespaced by prefix.
func NewRedis[T any](client *redis.Client, prefix string, logger *zap.Logger) *Redis[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis[T]{
		client: client,
		prefix: prefix,
		logger: logger.Named("cache.redis"),
	}
}

// Get loads and decodes the value under key. Backend and decode failures are
// logged and reported as a miss.
func (r *Redis[T]) Get(ctx context.Context, key string) (T, bool) {
	var zero T

	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("redis get failed", zap.String("key", key), zap.Error(err))
		}
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		r.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return v, true
}

// Set encodes value as JSON and stores it with ttl.
func (r *Redis[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		r.logger.Warn("cache value not encodable", zap.String("key", key), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		r.logger.Warn("redis set failed", zap.String("key", key), zap.Error(err))
	}
}
