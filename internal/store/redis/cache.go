package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is the default TTL for cached resolutions (24 hours)
const DefaultCacheTTL = 24 * time.Hour

// CacheResolution stores a query -> link URL resolution in cache
func (s *Store) CacheResolution(ctx context.Context, query, url string, ttl time.Duration) error {
	if err := s.client.Set(ctx, CacheKey(query), url, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache resolution: %w", err)
	}
	return nil
}

// GetCachedResolution retrieves a cached resolution; a miss returns ""
func (s *Store) GetCachedResolution(ctx context.Context, query string) (string, error) {
	url, err := s.client.Get(ctx, CacheKey(query)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get cached resolution: %w", err)
	}
	return url, nil
}

// FlushCache removes all cached resolutions. Called whenever the document changes.
func (s *Store) FlushCache(ctx context.Context) error {
	iter := s.client.Scan(ctx, 0, KeyPrefixCache+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("failed to delete cache key: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to flush cache: %w", err)
	}
	return nil
}
