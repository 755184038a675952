package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/db"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, InitSchema(context.Background(), conn))
	return conn
}

func seedExperts(t *testing.T, conn *sql.DB) {
	t.Helper()

	day := func(d int) *time.Time {
		ts := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
		return &ts
	}

	_, err := Seed(context.Background(), conn, db.SQLite, []ExpertSeed{
		{ID: 1, Title: "Anna Physio", Category: "Health", PostalCode: "5000", City: "Odense C", Latitude: "55.396", Longitude: "10.388", PublishedAt: day(1)},
		{ID: 2, Title: "Bo Carpenter", Category: "Craft", PostalCode: "8000", City: "Aarhus C", Latitude: "56.157", Longitude: "10.211", PublishedAt: day(3)},
		{ID: 3, Title: "Clara 100% Coach", Category: "health", PostalCode: "1050", City: "København K", Latitude: "", Longitude: "", PublishedAt: day(2)},
		{ID: 4, Title: "Draft Expert", Category: "Health", PostalCode: "5000", City: "Odense C", Latitude: "55.39", Longitude: "10.38", Status: "draft"},
		{ID: 5, Title: "Erik Broken", Category: "Health", PostalCode: "5240", City: "Odense NØ", Latitude: "north", Longitude: "10.4", PublishedAt: day(4)},
	})
	require.NoError(t, err)
}

func ids(experts []domain.Expert) []int64 {
	out := make([]int64, 0, len(experts))
	for _, e := range experts {
		out = append(out, e.ID)
	}
	return out
}

func TestFindByTypeAndFilters(t *testing.T) {
	conn := openTestDB(t)
	seedExperts(t, conn)
	repo := NewSQLExpertRepository(conn, db.SQLite)
	ctx := context.Background()

	t.Run("listing excludes drafts, newest first", func(t *testing.T) {
		got, err := repo.FindByTypeAndFilters(ctx, domain.NewExpertQuery(domain.WithSort(domain.SortNewest)))
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 2, 3, 1}, ids(got))
	})

	t.Run("category is case-insensitive", func(t *testing.T) {
		got, err := repo.FindByTypeAndFilters(ctx, domain.NewExpertQuery(
			domain.WithCategory("HEALTH"),
			domain.WithSort(domain.SortTitle),
		))
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 3, 5}, ids(got))
	})

	t.Run("location text matches postal code or city", func(t *testing.T) {
		got, err := repo.FindByTypeAndFilters(ctx, domain.NewExpertQuery(
			domain.WithLocation("odense", 0),
			domain.WithSort(domain.SortTitle),
		))
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 5}, ids(got))

		got, err = repo.FindByTypeAndFilters(ctx, domain.NewExpertQuery(domain.WithLocation("800", 0)))
		require.NoError(t, err)
		assert.Equal(t, []int64{2}, ids(got))
	})

	t.Run("text wildcards are escaped", func(t *testing.T) {
		got, err := repo.FindByTypeAndFilters(ctx, domain.NewExpertQuery(domain.WithText("100%")))
		require.NoError(t, err)
		assert.Equal(t, []int64{3}, ids(got))
	})

	t.Run("limit", func(t *testing.T) {
		got, err := repo.FindByTypeAndFilters(ctx, domain.NewExpertQuery(
			domain.WithSort(domain.SortTitle),
			domain.WithLimit(2),
		))
		require.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids(got))
	})
}

func TestFindByIDsOrdered(t *testing.T) {
	conn := openTestDB(t)
	seedExperts(t, conn)
	repo := NewSQLExpertRepository(conn, db.SQLite)

	got, err := repo.FindByIDsOrdered(context.Background(), []int64{2, 99, 4, 1, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 1}, ids(got))
	assert.Equal(t, "Aarhus C", got[0].City)
	assert.True(t, got[0].PublishedAt.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))

	got, err = repo.FindByIDsOrdered(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListCandidates(t *testing.T) {
	conn := openTestDB(t)
	seedExperts(t, conn)
	repo := NewSQLExpertRepository(conn, db.SQLite)

	got, err := repo.ListCandidates(context.Background(), domain.NewExpertQuery(domain.WithLocation("ignored", 10)))
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, domain.Candidate{ID: 1, Latitude: "55.396", Longitude: "10.388"}, got[0])
	assert.Equal(t, int64(2), got[1].ID)
	// Malformed metadata is passed through; the radius filter drops it.
	assert.Equal(t, domain.Candidate{ID: 5, Latitude: "north", Longitude: "10.4"}, got[2])

	got, err = repo.ListCandidates(context.Background(), domain.NewExpertQuery(domain.WithCategory("craft")))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)
}

func TestSeedRejectsInvalidRows(t *testing.T) {
	conn := openTestDB(t)

	_, err := Seed(context.Background(), conn, db.SQLite, []ExpertSeed{{ID: 0, Title: "x"}})
	assert.Error(t, err)

	_, err = Seed(context.Background(), conn, db.SQLite, []ExpertSeed{{ID: 1, Title: "  "}})
	assert.Error(t, err)
}
