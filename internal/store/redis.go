package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	redisClient "github.com/go-redis/redis/v8"
	"github.com/ivlev/lrcframe/internal/lrc"
)

// RedisCache stores parsed lines as JSON in Redis
type RedisCache struct {
	client *redisClient.Client
	ttl    time.Duration
}

// NewRedisCache connects to Redis. A bare host:port is dialed over TLS as the default user.
func NewRedisCache(url, password string, ttl time.Duration) (*RedisCache, error) {
	if !strings.Contains(url, "://") {
		url = fmt.Sprintf("rediss://default:%s@%s", password, url)
	}

	opt, err := redisClient.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if opt.Password == "" && password != "" {
		opt.Password = password
	}

	return NewRedisCacheFromClient(redisClient.NewClient(opt), ttl), nil
}

// NewRedisCacheFromClient wraps an existing client
func NewRedisCacheFromClient(client *redisClient.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Ping checks the connection
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]lrc.TimedLine, bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redisClient.Nil {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var lines []lrc.TimedLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, false, fmt.Errorf("decode cached lines: %w", err)
	}
	return lines, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, lines []lrc.TimedLine) error {
	data, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
