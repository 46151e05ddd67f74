package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/saasbase/projecthub/internal/reliability/circuitbreaker"
)

// Cache is a read-through JSON cache over Redis, guarded by a circuit
// breaker. Keys embed the tenant id, so a cached row can never be served
// across tenants. All methods are best-effort: a failing or open cache
// behaves like a miss and the caller falls back to the store.
type Cache struct {
	client  *Client
	breaker *circuitbreaker.CircuitBreaker
	ttl     time.Duration
	logger  *slog.Logger
}

// NewCache wraps a Redis client as an entity cache.
func NewCache(client *Client, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		client:  client,
		breaker: circuitbreaker.New(5, 2, 30*time.Second),
		ttl:     ttl,
		logger:  logger,
	}
}

// GetJSON unmarshals the cached value for key into v. It returns false on
// miss, open breaker, or any redis failure.
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if c == nil || !c.breaker.Allow() {
		return false
	}

	data, err := c.client.Get(ctx, key)
	if err != nil {
		if IsMiss(err) {
			c.breaker.RecordSuccess()
		} else {
			c.breaker.RecordFailure()
			c.logger.Warn("cache get failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	c.breaker.RecordSuccess()

	if err := json.Unmarshal(data, v); err != nil {
		// Stale or corrupt entry; drop it.
		_ = c.client.Delete(ctx, key)
		return false
	}
	return true
}

// SetJSON stores v under key for the cache TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}) {
	if c == nil || !c.breaker.Allow() {
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl); err != nil {
		c.breaker.RecordFailure()
		c.logger.Warn("cache set failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	c.breaker.RecordSuccess()
}

// Invalidate removes a key after a mutation.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if c == nil || !c.breaker.Allow() {
		return
	}
	if err := c.client.Delete(ctx, key); err != nil {
		c.breaker.RecordFailure()
		c.logger.Warn("cache invalidate failed", slog.String("key", key), slog.String("error", err.Error()))
		return
	}
	c.breaker.RecordSuccess()
}
