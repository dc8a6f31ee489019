package redis

import (
	"context"
	"fmt"
	"strconv"
)

// IncrementUsage increments the jump counter for a link URL
func (s *Store) IncrementUsage(ctx context.Context, url string) (int64, error) {
	n, err := s.client.HIncrBy(ctx, KeyUsage, url, 1).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment usage: %w", err)
	}
	return n, nil
}

// GetUsageStats retrieves the jump counters of every link
func (s *Store) GetUsageStats(ctx context.Context) (map[string]int64, error) {
	raw, err := s.client.HGetAll(ctx, KeyUsage).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	}

	stats := make(map[string]int64, len(raw))
	for url, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			continue
		}
		stats[url] = n
	}
	return stats, nil
}
