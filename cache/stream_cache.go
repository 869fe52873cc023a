package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamURLCache keeps issued playback URLs in Redis so repeat stream
// requests inside the signing window reuse the same bearer URL instead of
// presigning again. Entries expire before the URL itself does.
type StreamURLCache struct {
	client *redis.Client
}

// NewStreamURLCache wraps a Redis client. A nil client disables caching.
func NewStreamURLCache(client *redis.Client) *StreamURLCache {
	return &StreamURLCache{client: client}
}

// streamURLKey builds the cache key for one song's playback URL.
func streamURLKey(songID string) string {
	return fmt.Sprintf("stream:url:%s", songID)
}

// Get returns the cached URL for a song, or "" when absent.
func (c *StreamURLCache) Get(ctx context.Context, songID string) (string, error) {
	if c == nil || c.client == nil {
		return "", nil
	}

	val, err := c.client.Get(ctx, streamURLKey(songID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get cached stream URL: %w", err)
	}
	return val, nil
}

// Set stores the URL for a song with the given lifetime.
func (c *StreamURLCache) Set(ctx context.Context, songID, url string, ttl time.Duration) error {
	if c == nil || c.client == nil || ttl <= 0 {
		return nil
	}

	if err := c.client.Set(ctx, streamURLKey(songID), url, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache stream URL: %w", err)
	}
	return nil
}
