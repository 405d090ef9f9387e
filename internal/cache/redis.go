package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/limaJavier/groupscheduling/pkg/model"
	"github.com/redis/go-redis/v9"
)

// Options holds Redis connection configuration.
type Options struct {
	// Addr is the Redis address in "host:port" format.
	Addr     string
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultOptions returns the connection timeouts used when none are given.
func DefaultOptions(addr string) Options {
	return Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

var _ Cache = (*RedisCache)(nil)

// RedisCache stores results as JSON strings with a TTL.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and checks the connection.
func NewRedisCache(ctx context.Context, opts Options) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  opts.DialTimeout,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &RedisCache{client: client}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) (model.ScheduleResult, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ScheduleResult{}, ErrCacheMiss
		}
		return model.ScheduleResult{}, err
	}

	var result model.ScheduleResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.ScheduleResult{}, fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return result, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result model.ScheduleResult, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

// Ping checks if Redis is reachable.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
