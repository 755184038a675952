package postalcodes

import (
	"context"
	"errors"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/obs"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	createPostalCodeTable = `CREATE TABLE IF NOT EXISTS postal_codes(
		code varchar(16) primary key,
		city text NOT NULL DEFAULT '',
		lat double precision NOT NULL,
		lon double precision NOT NULL
	);`

	createCityIndex = `CREATE INDEX IF NOT EXISTS idx_postal_codes_city ON postal_codes (lower(city));`

	upsertPostalCode = `INSERT INTO postal_codes(code, city, lat, lon) VALUES($1, $2, $3, $4)
		ON CONFLICT (code) DO UPDATE SET city = EXCLUDED.city, lat = EXCLUDED.lat, lon = EXCLUDED.lon;`
)

// PgxRepository persists the postal-code table in Postgres. The server loads
// a snapshot with LoadAll and serves lookups from memory.
type PgxRepository struct {
	conn *pgxpool.Pool
}

func NewPgxRepository(ctx context.Context, conn *pgxpool.Pool) (*PgxRepository, error) {
	if conn == nil {
		return nil, errors.New("postal code repository: pool is nil")
	}

	if _, err := conn.Exec(ctx, createPostalCodeTable); err != nil {
		return nil, fmt.Errorf("postal code repository: create table: %w", err)
	}

	if _, err := conn.Exec(ctx, createCityIndex); err != nil {
		return nil, fmt.Errorf("postal code repository: create city index: %w", err)
	}

	return &PgxRepository{conn: conn}, nil
}

// StoreMany upserts entries in a single batch and returns how many were sent.
func (r *PgxRepository) StoreMany(ctx context.Context, entries []domain.PostalCode) (_ int, err error) {
	defer obs.Time(ctx, "postalcodes.StoreMany")(&err)

	batch := &pgx.Batch{}
	for _, pc := range entries {
		code := normalizeCode(pc.Code)
		if code == "" || !pc.Coordinates.Valid() {
			continue
		}
		batch.Queue(upsertPostalCode, code, strings.TrimSpace(pc.City), pc.Coordinates.Lat, pc.Coordinates.Lon)
	}

	n := batch.Len()
	if n == 0 {
		return 0, nil
	}

	br := r.conn.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			return i, fmt.Errorf("store postal codes: batch item #%d: %w", i+1, err)
		}
	}

	return n, nil
}

// FindPostalCode reads one stored row, bypassing any in-memory snapshot.
func (r *PgxRepository) FindPostalCode(ctx context.Context, code string) (domain.PostalCode, error) {
	row := r.conn.QueryRow(ctx, "SELECT code, city, lat, lon FROM postal_codes WHERE code = $1;", normalizeCode(code))

	var pc domain.PostalCode
	err := row.Scan(&pc.Code, &pc.City, &pc.Coordinates.Lat, &pc.Coordinates.Lon)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.PostalCode{}, fmt.Errorf("find postal code %q: %w", code, domain.ErrLocationNotFound)
	}
	if err != nil {
		return domain.PostalCode{}, fmt.Errorf("find postal code %q: %w", code, err)
	}

	return pc, nil
}

// LoadAll returns every stored row, for building an in-memory Table.
func (r *PgxRepository) LoadAll(ctx context.Context) (_ []domain.PostalCode, err error) {
	defer obs.Time(ctx, "postalcodes.LoadAll")(&err)

	rows, err := r.conn.Query(ctx, "SELECT code, city, lat, lon FROM postal_codes ORDER BY code;")
	if err != nil {
		return nil, fmt.Errorf("load postal codes: query: %w", err)
	}
	defer rows.Close()

	out := make([]domain.PostalCode, 0, 1024)
	for rows.Next() {
		var pc domain.PostalCode
		if err := rows.Scan(&pc.Code, &pc.City, &pc.Coordinates.Lat, &pc.Coordinates.Lon); err != nil {
			return nil, fmt.Errorf("load postal codes: scan row: %w", err)
		}
		out = append(out, pc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load postal codes: row iteration: %w", err)
	}

	return out, nil
}
