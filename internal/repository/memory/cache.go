package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/CampusConnections/campus-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

type cacheEntry struct {
	value     string
	expiresAt time.Time
}

type cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache returns a Cache that answers like redis, including redis.Nil on misses.
func NewCache() repository.Cache {
	return &cache{
		entries: make(map[string]cacheEntry),
	}
}

func (c *cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	valueJSON, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry := cacheEntry{value: string(valueJSON)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	c.entries[key] = entry
	return nil
}

func (c *cache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(entry.value, nil)
}

func (c *cache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	for _, key := range keys {
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			deleted++
		}
	}
	return redis.NewIntResult(deleted, nil)
}
