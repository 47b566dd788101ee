package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/contracthub-backend/internal/config"
	"github.com/heartmarshall/contracthub-backend/internal/domain"
)

func newTestClient(t *testing.T) (*goredis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewClient(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), config.RedisConfig{URL: "redis://" + mr.Addr() + "/0"})
	require.NoError(t, err)
	defer client.Close()

	_, err = NewClient(context.Background(), config.RedisConfig{URL: "not a url"})
	require.Error(t, err)
}

// put stores v under key the way a reader does after a miss.
func put(t *testing.T, c *Cache, et domain.EntityType, key string, v any) {
	t.Helper()
	var discard any
	slot, _, err := c.Get(context.Background(), et, key, &discard)
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), slot, v))
}

func TestCache_SetGet(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	c := NewCache(client, time.Minute)
	ctx := context.Background()

	var miss domain.Document
	slot, found, err := c.Get(ctx, domain.EntityTypeContract, "get:abc", &miss)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "cache:contract:v0:get:abc", slot)

	doc := domain.Document{"code": "abc", "name": "Acme SaaS", "views": int64(3)}
	require.NoError(t, c.Set(ctx, slot, doc))

	var got domain.Document
	_, found, err = c.Get(ctx, domain.EntityTypeContract, "get:abc", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Acme SaaS", got["name"])
	assert.Equal(t, json.Number("3"), got["views"])
}

func TestCache_ListEntries(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	c := NewCache(client, time.Minute)
	ctx := context.Background()

	put(t, c, domain.EntityTypeOrganization, "find:all:x", []domain.Document{{"code": "a"}, {"code": "b"}})

	var got []domain.Document
	_, found, err := c.Get(ctx, domain.EntityTypeOrganization, "find:all:x", &got)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Code())
}

func TestCache_InvalidateIsPerType(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	c := NewCache(client, time.Minute)
	ctx := context.Background()

	put(t, c, domain.EntityTypeContract, "get:a", domain.Document{"code": "a"})
	put(t, c, domain.EntityTypeRelationship, "get:a", domain.Document{"code": "a"})

	require.NoError(t, c.Notify(ctx, domain.ChangeEvent{Type: domain.EntityTypeContract, Kind: domain.ChangeUpdated}))

	var doc domain.Document
	_, found, err := c.Get(ctx, domain.EntityTypeContract, "get:a", &doc)
	require.NoError(t, err)
	assert.False(t, found, "contract entries should be invalidated")

	_, found, err = c.Get(ctx, domain.EntityTypeRelationship, "get:a", &doc)
	require.NoError(t, err)
	assert.True(t, found, "relationship entries should survive")
}

func TestCache_WriteAfterChangeIsUnreachable(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t)
	c := NewCache(client, time.Minute)
	ctx := context.Background()

	var doc domain.Document
	slot, found, err := c.Get(ctx, domain.EntityTypeContract, "get:a", &doc)
	require.NoError(t, err)
	require.False(t, found)

	// A change commits between the read and the write-back.
	require.NoError(t, c.Notify(ctx, domain.ChangeEvent{Type: domain.EntityTypeContract, Kind: domain.ChangeUpdated}))
	require.NoError(t, c.Set(ctx, slot, domain.Document{"code": "a", "name": "Acme"}))

	next, found, err := c.Get(ctx, domain.EntityTypeContract, "get:a", &doc)
	require.NoError(t, err)
	assert.False(t, found, "stale write must not be served")
	assert.NotEqual(t, slot, next)
}

func TestCache_TTL(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	c := NewCache(client, 30*time.Second)
	ctx := context.Background()

	put(t, c, domain.EntityTypeGoal, "get:g", domain.Document{"code": "g"})
	mr.FastForward(31 * time.Second)

	var doc domain.Document
	_, found, err := c.Get(ctx, domain.EntityTypeGoal, "get:g", &doc)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_RedisDown(t *testing.T) {
	t.Parallel()

	client, mr := newTestClient(t)
	c := NewCache(client, time.Minute)
	mr.Close()

	var doc domain.Document
	_, _, err := c.Get(context.Background(), domain.EntityTypeContract, "get:a", &doc)
	require.Error(t, err)
}
