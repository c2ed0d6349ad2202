// Package redisx provides the shared Redis client and the cache keys
// used by the API layer.
package redisx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyProductList caches the public product listing.
	KeyProductList = "cache:products"

	// TTLProductList bounds staleness of the cached listing. Writes
	// invalidate the key eagerly, the TTL is a backstop.
	TTLProductList = 30 * time.Second
)

// New creates a Redis client and verifies connectivity. The cache is
// best-effort so callers may proceed without it when Ping fails.
func New(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}
