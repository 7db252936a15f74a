package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching serialized results
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// FeedClient loads the current set of normalized promotional records
type FeedClient interface {
	FetchProducts(ctx context.Context) ([]ProductRecord, error)
}
