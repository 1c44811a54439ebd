package profile

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheTTL = 5 * time.Minute

// Resolver looks a display name up from the external profile service.
type Resolver func(ctx context.Context, address string) (string, error)

// Cache is a short-TTL redis cache in front of the external profile lookup,
// keyed by lower-cased wallet address. Misses on the resolver are cached as
// empty strings so a flapping upstream does not get hammered.
type Cache struct {
	redis   *redis.Client
	resolve Resolver
}

func NewCache(client *redis.Client, resolve Resolver) *Cache {
	return &Cache{redis: client, resolve: resolve}
}

// DisplayName returns the cached display name for an address, falling back to
// the resolver and caching whatever it says.
func (c *Cache) DisplayName(ctx context.Context, address string) string {
	address = strings.ToLower(address)
	key := "profile:" + address

	if name, err := c.redis.Get(ctx, key).Result(); err == nil {
		return name
	}

	name := ""
	if c.resolve != nil {
		if resolved, err := c.resolve(ctx, address); err == nil {
			name = resolved
		}
	}
	c.redis.Set(ctx, key, name, cacheTTL)
	return name
}
