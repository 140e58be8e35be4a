// internal/assessment/cache.go
package assessment

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eb2niw-assessor/internal/eligibility"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "eligibility:assessment:"

// ResultCache memoises engine output by profile content.
type ResultCache interface {
	Get(ctx context.Context, key string) (*eligibility.Assessment, bool, error)
	Set(ctx context.Context, key string, a *eligibility.Assessment) error
}

// CacheKey hashes the canonical JSON encoding of p. Equal profiles share a key.
func CacheKey(p *eligibility.Profile) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}
	sum := sha256.Sum256(data)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}

type RedisResultCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisResultCache(client redis.Cmdable, ttl time.Duration) *RedisResultCache {
	return &RedisResultCache{client: client, ttl: ttl}
}

func (c *RedisResultCache) Get(ctx context.Context, key string) (*eligibility.Assessment, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var a eligibility.Assessment
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, false, fmt.Errorf("decode cached assessment: %w", err)
	}
	return &a, true, nil
}

func (c *RedisResultCache) Set(ctx context.Context, key string, a *eligibility.Assessment) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}
