package cache

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("key not found in cache")
	ErrClosed   = errors.New("cache is closed")
)

// Cache stores provider responses between runs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)

	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	Close() error
}

type Options struct {
	DefaultTTL time.Duration

	RedisAddr string

	RedisPassword string

	RedisDB int

	KeyPrefix string
}

func DefaultOptions() Options {
	return Options{
		DefaultTTL: 6 * time.Hour,
		KeyPrefix:  "jobfinder:",
	}
}
