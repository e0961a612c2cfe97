// Package cache is a redis-backed read cache for resolved metadata URIs.
// The registry works without it; a nil *Cache disables every method.
package cache

import (
	"context"
	"strconv"
	"time"

	platformredis "namehaus/internal/platform/redis"
	"namehaus/pkg/domain"
)

const keyPrefix = "namehaus:resolve:"

// Cache wraps the shared redis client with the resolve keyspace.
type Cache struct {
	client *platformredis.Client
	ttl    time.Duration
}

// New returns a cache over the client, or nil when redis is not configured.
func New(client *platformredis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	return &Cache{client: client, ttl: ttl}
}

// GetURI returns the cached URI for id, if present.
func (c *Cache) GetURI(ctx context.Context, id domain.RecordID) (string, bool) {
	if c == nil {
		return "", false
	}
	uri, err := c.client.Get(ctx, key(id)).Result()
	if err != nil {
		return "", false
	}
	return uri, true
}

// SetURI stores the URI for id with the configured TTL. Best effort.
func (c *Cache) SetURI(ctx context.Context, id domain.RecordID, uri string) {
	if c == nil {
		return
	}
	c.client.Set(ctx, key(id), uri, c.ttl)
}

// Purge drops every cached URI. Called when the base URI changes.
func (c *Cache) Purge(ctx context.Context) error {
	if c == nil {
		return nil
	}
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func key(id domain.RecordID) string {
	return keyPrefix + strconv.FormatUint(uint64(id), 10)
}
