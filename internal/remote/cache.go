package remote

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const dictionaryCacheKeyPrefix = "dictionary:entry:"

// RedisEntryCache caches dictionary entries in Redis
type RedisEntryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisEntryCache creates a cache with the given entry TTL
func NewRedisEntryCache(client *redis.Client, ttl time.Duration) *RedisEntryCache {
	return &RedisEntryCache{client: client, ttl: ttl}
}

// Get returns the cached entries, or (nil, nil) if not found
func (c *RedisEntryCache) Get(ctx context.Context, word string) ([]Entry, error) {
	data, err := c.client.Get(ctx, dictionaryCacheKeyPrefix+word).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Set stores entries with the configured TTL
func (c *RedisEntryCache) Set(ctx context.Context, word string, entries []Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, dictionaryCacheKeyPrefix+word, data, c.ttl).Err()
}
