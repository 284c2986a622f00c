package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rafabene/revistete-backend/internal/domain/ports"
)

// RedisCache implementa ports.Cache sobre o Redis
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache conecta ao Redis a partir de uma URL (redis://...) e
// verifica a conexão com um PING
func NewRedisCache(url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, prefix: prefix}, nil
}

// NewRedisCacheFromClient usa um client já configurado
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ports.ErrCacheMiss
	}
	return v, err
}

func (r *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Ping verifica se a conexão continua ativa (usado pelo health check)
func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// New escolhe o backend do cache: Redis quando há URL e ele responde,
// memória local caso contrário
func New(url, prefix string, logger ports.Logger) ports.Cache {
	if url == "" {
		logger.Info("redis disabled, using in-memory cache", "reason", "empty redis url")
		return NewMemoryCache()
	}
	rc, err := NewRedisCache(url, prefix)
	if err != nil {
		logger.Warn("redis disabled, using in-memory cache", "error", err)
		return NewMemoryCache()
	}
	logger.Info("redis connected")
	return rc
}
