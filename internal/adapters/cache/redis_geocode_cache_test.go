package cache

import (
	"context"
	"testing"
	"time"

	"expert-directory-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisGeocodeCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisGeocodeCache(client, ttl), mr
}

func TestRedisGeocodeCacheRoundTrip(t *testing.T) {
	c, _ := newRedisCache(t, 0)
	ctx := context.Background()

	err := c.PutMany(ctx, map[string]domain.Coordinates{
		"odense c": {Lat: 55.396, Lon: 10.388},
		"aarhus c": {Lat: 56.157, Lon: 10.211},
	})
	require.NoError(t, err)

	got, err := c.GetMany(ctx, []string{"odense c", " odense c ", "missing", ""})
	require.NoError(t, err)

	assert.Len(t, got, 1)
	assert.Equal(t, domain.Coordinates{Lat: 55.396, Lon: 10.388}, got["odense c"])
}

func TestRedisGeocodeCacheTTL(t *testing.T) {
	c, mr := newRedisCache(t, time.Hour)
	ctx := context.Background()

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"odense c": {Lat: 55.396, Lon: 10.388}}))
	assert.Equal(t, time.Hour, mr.TTL("geocode:odense c"))

	mr.FastForward(2 * time.Hour)

	got, err := c.GetMany(ctx, []string{"odense c"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisGeocodeCacheIgnoresCorruptEntries(t *testing.T) {
	c, mr := newRedisCache(t, 0)
	require.NoError(t, mr.Set("geocode:bad", "not-a-pair"))
	require.NoError(t, mr.Set("geocode:range", "120,10"))

	got, err := c.GetMany(context.Background(), []string{"bad", "range"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRedisGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c, _ := newRedisCache(t, 0)

	err := c.PutMany(context.Background(), map[string]domain.Coordinates{" ": {Lat: 1, Lon: 1}})
	assert.Error(t, err)
}
