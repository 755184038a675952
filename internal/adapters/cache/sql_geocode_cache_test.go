package cache

import (
	"context"
	"testing"

	"expert-directory-service/internal/adapters/repositories"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSQLGeocodeCacheRoundTrip(t *testing.T) {
	conn, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, repositories.InitSchema(ctx, conn))

	c := NewSQLGeocodeCache(conn, db.SQLite)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"odense c": {Lat: 1, Lon: 1}}))
	// Upsert replaces the previous value.
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"odense c": {Lat: 55.396, Lon: 10.388}}))

	got, err := c.GetMany(ctx, []string{"odense c", "odense c", "missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{"odense c": {Lat: 55.396, Lon: 10.388}}, got)

	got, err = c.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLGeocodeCacheNilDB(t *testing.T) {
	c := NewSQLGeocodeCache(nil, db.SQLite)

	_, err := c.GetMany(context.Background(), []string{"x"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(context.Background(), map[string]domain.Coordinates{"x": {}}))
}
