package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

const cacheKeyPrefix = "cache:"

// Cache stores serialized documents per entity type. Every type has a
// version counter that is part of each key; bumping it invalidates all
// entries of the type at once and leaves them to expire.
type Cache struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCache creates a Cache whose entries live for ttl.
func NewCache(client *goredis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// Get loads the entry for key into dst and reports whether it was found.
// It also returns the slot: the key pinned to the type's version at lookup
// time. Writing a freshly read value back through Set(slot) keeps a change
// that lands between the lookup and the write from being masked, because
// that change moves the type to a newer version than the slot's.
func (c *Cache) Get(ctx context.Context, t domain.EntityType, key string, dst any) (string, bool, error) {
	slot, err := c.slot(ctx, t, key)
	if err != nil {
		return "", false, err
	}

	data, err := c.client.Get(ctx, slot).Bytes()
	if errors.Is(err, goredis.Nil) {
		return slot, false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", slot, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(dst); err != nil {
		return slot, false, fmt.Errorf("cache decode %s: %w", slot, err)
	}
	return slot, true, nil
}

// Set stores v in a slot returned by Get for the configured TTL.
func (c *Cache) Set(ctx context.Context, slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", slot, err)
	}
	if err := c.client.Set(ctx, slot, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", slot, err)
	}
	return nil
}

// Invalidate drops every cached entry of type t.
func (c *Cache) Invalidate(ctx context.Context, t domain.EntityType) error {
	if err := c.client.Incr(ctx, versionKey(t)).Err(); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", t, err)
	}
	return nil
}

// Notify invalidates the type of every change event it receives.
func (c *Cache) Notify(ctx context.Context, ev domain.ChangeEvent) error {
	return c.Invalidate(ctx, ev.Type)
}

func (c *Cache) slot(ctx context.Context, t domain.EntityType, key string) (string, error) {
	version, err := c.client.Get(ctx, versionKey(t)).Int64()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("cache version %s: %w", t, err)
	}
	return cacheKeyPrefix + t.String() + ":v" + strconv.FormatInt(version, 10) + ":" + key, nil
}

func versionKey(t domain.EntityType) string {
	return cacheKeyPrefix + t.String() + ":version"
}
