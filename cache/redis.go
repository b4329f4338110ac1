// Package cache keeps signed photo URLs in Redis so repeated listings of the
// same profiles reuse a URL instead of signing again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/raushankrgupta/user-meets/meets"
	"github.com/raushankrgupta/user-meets/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "meets:photo-url:"

// Connect opens a Redis client and pings it.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Info().Str("addr", addr).Msg("Connected to Redis")
	return client, nil
}

// SignedURLCache wraps a URLSigner. A cached URL is kept for half of the
// requested expiry so clients always get at least that much validity.
// Redis errors fall through to the wrapped signer.
type SignedURLCache struct {
	client *redis.Client
	next   meets.URLSigner
}

func NewSignedURLCache(client *redis.Client, next meets.URLSigner) *SignedURLCache {
	return &SignedURLCache{client: client, next: next}
}

func (c *SignedURLCache) SignGetURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	cacheKey := keyPrefix + expires.String() + ":" + key

	url, err := c.client.Get(ctx, cacheKey).Result()
	switch {
	case err == nil:
		metrics.PhotoURLCacheHits.Inc()
		return url, nil
	case errors.Is(err, redis.Nil):
		metrics.PhotoURLCacheMisses.Inc()
	default:
		metrics.PhotoURLCacheMisses.Inc()
		log.Debug().Err(err).Msg("[cache] photo url lookup failed")
	}

	url, err = c.next.SignGetURL(ctx, key, expires)
	if err != nil {
		return "", err
	}

	if ttl := expires / 2; ttl > 0 {
		if err := c.client.Set(ctx, cacheKey, url, ttl).Err(); err != nil {
			log.Debug().Err(err).Msg("[cache] photo url store failed")
		}
	}
	return url, nil
}
