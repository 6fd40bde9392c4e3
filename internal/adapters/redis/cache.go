package redisad

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/karlseguin/ccache/v3"
	"github.com/redis/go-redis/v9"

	"everjourney/internal/adapters/observability"
)

// localTTL caps how long the in-process tier may serve a value Redis has since dropped.
const (
	localTTL         = 30 * time.Second
	defaultLocalSize = 2000
)

// Cache is a two-tier JSON cache: an in-process LRU in front of Redis.
// Without a Redis client it runs on the local tier alone.
type Cache struct {
	c     *redis.Client
	local *ccache.Cache[[]byte]
}

func New(addr, pass string, db, localSize int) *Cache {
	return NewSized(redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}), localSize)
}

func NewWithClient(c *redis.Client) *Cache { return NewSized(c, defaultLocalSize) }

// NewSized caps the in-process tier at localSize entries.
func NewSized(c *redis.Client, localSize int) *Cache {
	if localSize <= 0 {
		localSize = defaultLocalSize
	}
	return &Cache{c: c, local: ccache.New(ccache.Configure[[]byte]().MaxSize(int64(localSize)))}
}

// NewLocal returns a cache with no Redis behind it.
func NewLocal() *Cache { return NewWithClient(nil) }

func (r *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if it := r.local.Get(key); it != nil && !it.Expired() {
		observability.ObserveCache("local", "hit")
		return true, json.Unmarshal(it.Value(), dst)
	}
	observability.ObserveCache("local", "miss")
	if r.c == nil {
		return false, nil
	}

	v, err := r.c.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		observability.ObserveCache("redis", "miss")
		return false, nil
	}
	if err != nil {
		return false, err
	}
	observability.ObserveCache("redis", "hit")
	ttl := localTTL
	if d, err := r.c.TTL(ctx, key).Result(); err == nil && d > 0 && d < ttl {
		ttl = d
	}
	r.local.Set(key, v, ttl)
	return true, json.Unmarshal(v, dst)
}

func (r *Cache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ttl := time.Duration(ttlSec) * time.Second
	r.local.Set(key, b, min(ttl, localTTL))
	observability.ObserveCache("local", "set")
	if r.c == nil {
		return nil
	}
	observability.ObserveCache("redis", "set")
	return r.c.Set(ctx, key, b, ttl).Err()
}

func (r *Cache) Del(ctx context.Context, key string) error {
	r.local.Delete(key)
	observability.ObserveCache("local", "del")
	if r.c == nil {
		return nil
	}
	observability.ObserveCache("redis", "del")
	return r.c.Del(ctx, key).Err()
}

func (r *Cache) Ping(ctx context.Context) error {
	if r.c == nil {
		return nil
	}
	return r.c.Ping(ctx).Err()
}

// Client exposes the Redis client so sessions can share the connection.
func (r *Cache) Client() *redis.Client { return r.c }

func (r *Cache) Close() error {
	r.local.Stop()
	if r.c == nil {
		return nil
	}
	return r.c.Close()
}
