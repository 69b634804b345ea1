package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache TTLs
const (
	TTLSchema  = 10 * time.Minute // schema definitions (low change frequency)
	TTLContent = 1 * time.Minute  // single published record
	TTLList    = 30 * time.Second // published list pages (refreshed often)
	TTLDefault = 5 * time.Minute
)

// Cache key prefixes
const (
	PrefixSchema  = "schema:"
	PrefixContent = "content:"
	PrefixList    = "list:"
)

// Service Redis cache for published content reads. Scope is the
// tenant-qualified endpoint ("tenant:endpoint"); endpoint slugs alone
// are not unique across tenants.
type Service interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)

	GetSchema(ctx context.Context, scope string) ([]byte, error)
	SetSchema(ctx context.Context, scope string, data interface{}) error
	InvalidateSchema(ctx context.Context, scope string) error

	GetContent(ctx context.Context, scope, contentID string) ([]byte, error)
	SetContent(ctx context.Context, scope, contentID string, data interface{}) error
	InvalidateContent(ctx context.Context, scope, contentID string) error

	GetList(ctx context.Context, scope, queryHash string) ([]byte, error)
	SetList(ctx context.Context, scope, queryHash string, data interface{}) error
	InvalidateLists(ctx context.Context, scope string) error

	IsAvailable() bool
	Ping(ctx context.Context) error
}

// redisCache Redis-backed cache implementation
type redisCache struct {
	client *redis.Client
}

// NewService creates a new cache service. A nil client disables caching.
func NewService(client *redis.Client) Service {
	return &redisCache{client: client}
}

func (c *redisCache) IsAvailable() bool {
	return c.client != nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	if c.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	return c.client.Ping(ctx).Err()
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.client == nil {
		return fmt.Errorf("redis not available")
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}

	return json.Unmarshal(data, dest)
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.client == nil {
		return nil // no Redis, silently skip
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

func (c *redisCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	n, err := c.client.Exists(ctx, key).Result()
	return n > 0, err
}

// ========================================
// Schema cache
// ========================================

func (c *redisCache) schemaKey(scope string) string {
	return PrefixSchema + scope
}

func (c *redisCache) GetSchema(ctx context.Context, scope string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.schemaKey(scope)).Bytes()
}

func (c *redisCache) SetSchema(ctx context.Context, scope string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.schemaKey(scope), jsonData, TTLSchema).Err()
}

func (c *redisCache) InvalidateSchema(ctx context.Context, scope string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.schemaKey(scope)).Err()
}

// ========================================
// Single record cache
// ========================================

func (c *redisCache) contentKey(scope, contentID string) string {
	return PrefixContent + scope + ":" + contentID
}

func (c *redisCache) GetContent(ctx context.Context, scope, contentID string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.contentKey(scope, contentID)).Bytes()
}

func (c *redisCache) SetContent(ctx context.Context, scope, contentID string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.contentKey(scope, contentID), jsonData, TTLContent).Err()
}

func (c *redisCache) InvalidateContent(ctx context.Context, scope, contentID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.contentKey(scope, contentID)).Err()
}

// ========================================
// List page cache
// ========================================

func (c *redisCache) listKey(scope, queryHash string) string {
	return fmt.Sprintf("%s%s:%s", PrefixList, scope, queryHash)
}

func (c *redisCache) GetList(ctx context.Context, scope, queryHash string) ([]byte, error) {
	if c.client == nil {
		return nil, fmt.Errorf("redis not available")
	}
	return c.client.Get(ctx, c.listKey(scope, queryHash)).Bytes()
}

func (c *redisCache) SetList(ctx context.Context, scope, queryHash string, data interface{}) error {
	if c.client == nil {
		return nil
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.listKey(scope, queryHash), jsonData, TTLList).Err()
}

func (c *redisCache) InvalidateLists(ctx context.Context, scope string) error {
	if c.client == nil {
		return nil
	}
	return c.deleteByPattern(ctx, PrefixList+scope+":*")
}

// ========================================
// Internal utilities
// ========================================

func (c *redisCache) deleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
