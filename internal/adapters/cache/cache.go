package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"
)

// Cache is a typed, best-effort view over a Store. The cache is advisory: backend and codec
// failures are logged and reported as a miss or silently dropped, never returned.
type Cache[T any] struct {
	store Store
	log   *logrus.Entry
}

func New[T any](store Store) *Cache[T] {
	return &Cache[T]{
		store: store,
		log:   logrus.WithField("component", "cache"),
	}
}

// Get returns the stored value and true, or the zero value and false when absent.
func (c *Cache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache get failed, treating as miss")
		return value, false
	}
	if !ok {
		c.log.WithField("key", key).Debug("cache miss")
		return value, false
	}
	if err = json.Unmarshal(data, &value); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache entry undecodable, treating as miss")
		var zero T
		return zero, false
	}
	c.log.WithField("key", key).Debug("cache hit")
	return value, true
}

func (c *Cache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache value not encodable")
		return
	}
	if err = c.store.Set(ctx, key, data, ttl); err != nil {
		c.log.WithError(err).WithFields(logrus.Fields{"key": key, "ttl": ttl}).Warn("cache set failed")
	}
}

func (c *Cache[T]) Remove(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache remove failed")
	}
}

func (c *Cache[T]) Exists(ctx context.Context, key string) bool {
	ok, err := c.store.Exists(ctx, key)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache exists check failed")
		return false
	}
	return ok
}

func (c *Cache[T]) Clear(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.log.WithError(err).Warn("cache clear failed")
	}
}
