package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/appfolio/showcase-api/internal/pkg/metrics"
)

const (
	DefaultPageTTL = 60 * time.Second
	keyPrefix      = "appfolio:public:"
)

// PageCache stores rendered public payloads keyed by handle and slug.
type PageCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, keys ...string) error
}

// ProfileKey addresses the public profile of username.
func ProfileKey(username string) string {
	return keyPrefix + "profile:" + strings.ToLower(username)
}

// AppKey addresses one public application page.
func AppKey(username, slug string) string {
	return keyPrefix + "app:" + strings.ToLower(username) + ":" + strings.ToLower(slug)
}

type RedisPageCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisPageCache(client *redis.Client, ttl time.Duration) *RedisPageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &RedisPageCache{client: client, ttl: ttl}
}

func (c *RedisPageCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(false)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Undecodable entries are dropped and treated as a miss.
		_ = c.client.Del(ctx, key).Err()
		metrics.RecordCacheLookup(false)
		return false, nil
	}
	metrics.RecordCacheLookup(true)
	return true, nil
}

func (c *RedisPageCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

func (c *RedisPageCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// NopPageCache never stores anything.
type NopPageCache struct{}

func (NopPageCache) Get(context.Context, string, any) (bool, error) { return false, nil }
func (NopPageCache) Set(context.Context, string, any) error         { return nil }
func (NopPageCache) Invalidate(context.Context, ...string) error    { return nil }
