package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/db"
	"fmt"
	"os"
	"strings"
	"time"
)

// Initialize the database schema. The DDL is shared by Postgres and SQLite.
func InitSchema(ctx context.Context, conn *sql.DB) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createExpertsQuery := `
	CREATE TABLE IF NOT EXISTS experts (
		id BIGINT PRIMARY KEY,
		post_type TEXT NOT NULL DEFAULT 'rfm_expert',
		status TEXT NOT NULL DEFAULT 'publish',
		title TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		postal_code TEXT NOT NULL DEFAULT '',
		city TEXT NOT NULL DEFAULT '',
		latitude TEXT NOT NULL DEFAULT '',
		longitude TEXT NOT NULL DEFAULT '',
		published_at BIGINT NOT NULL DEFAULT 0
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		location TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_experts_type_status
	ON experts(post_type, status);
	`

	statements := []string{
		createExpertsQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type ExpertSeed struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	PostalCode  string     `json:"postal_code"`
	City        string     `json:"city"`
	Latitude    string     `json:"latitude"`
	Longitude   string     `json:"longitude"`
	Status      string     `json:"status"`
	PublishedAt *time.Time `json:"published_at"`
}

// Populate the database with expert data from a JSON file.
func SeedFromJSON(ctx context.Context, conn *sql.DB, dialect db.Dialect, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed experts: read %q: %w", jsonPath, err)
	}

	var data []ExpertSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed experts: parse json: %w", err)
	}

	return Seed(ctx, conn, dialect, data)
}

// Seed upserts experts. Latitude and longitude are stored verbatim; malformed
// values are tolerated here and filtered out at search time.
func Seed(ctx context.Context, conn *sql.DB, dialect db.Dialect, data []ExpertSeed) (int, error) {
	rows := make([]ExpertSeed, 0, len(data))
	for i, item := range data {
		if item.ID <= 0 {
			return 0, fmt.Errorf("seed experts: invalid id at index %d: %d", i+1, item.ID)
		}

		item.Title = strings.TrimSpace(item.Title)
		if item.Title == "" {
			return 0, fmt.Errorf("seed experts: item at index %d: title cannot be empty", i+1)
		}

		if strings.TrimSpace(item.Status) == "" {
			item.Status = "publish"
		}
		rows = append(rows, item)
	}

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("seed experts: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`
	INSERT INTO experts (
		id, post_type, status, title, category,
		postal_code, city, latitude, longitude, published_at
	)
	VALUES (%s)
	ON CONFLICT (id) DO UPDATE
	SET status = excluded.status,
		title = excluded.title,
		category = excluded.category,
		postal_code = excluded.postal_code,
		city = excluded.city,
		latitude = excluded.latitude,
		longitude = excluded.longitude,
		published_at = excluded.published_at;
	`, dialect.Placeholders(1, 10))

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("seed experts: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range rows {
		var published int64
		if e.PublishedAt != nil {
			published = e.PublishedAt.Unix()
		}

		_, err := stmt.ExecContext(ctx,
			e.ID, domain.PostType, e.Status, e.Title, strings.TrimSpace(e.Category),
			strings.TrimSpace(e.PostalCode), strings.TrimSpace(e.City), e.Latitude, e.Longitude, published,
		)
		if err != nil {
			return 0, fmt.Errorf("seed experts: insert id=%d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed experts: commit tx: %w", err)
	}

	return len(rows), nil
}
