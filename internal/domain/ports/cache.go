package ports

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indica que a chave não existe no cache
var ErrCacheMiss = errors.New("cache miss")

// Cache é um armazenamento chave/valor com expiração
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}
