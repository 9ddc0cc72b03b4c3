package cache

import (
	"context"
	"time"
)

// Cache defines the interface for caching services.
// Get returns an empty string and a nil error when the key is absent.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Noop is used when no cache is configured. Every lookup misses.
type Noop struct{}

func (Noop) Get(context.Context, string) (string, error) { return "", nil }

func (Noop) Set(context.Context, string, interface{}, time.Duration) error { return nil }

func (Noop) Delete(context.Context, string) error { return nil }
