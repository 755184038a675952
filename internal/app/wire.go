package app

import (
	"context"
	"database/sql"
	"errors"
	"expert-directory-service/internal/adapters/cache"
	"expert-directory-service/internal/adapters/geocoding"
	"expert-directory-service/internal/adapters/postalcodes"
	"expert-directory-service/internal/adapters/repositories"
	"expert-directory-service/internal/config"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/db"
	"expert-directory-service/internal/ports"
	"expert-directory-service/internal/services"
	"fmt"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Wire bundles the database handle, the postal-code table and the search
// service built from a Config.
type Wire struct {
	DB      *sql.DB
	Dialect db.Dialect
	Table   *postalcodes.Table
	Search  *services.ExpertSearch

	closers []func() error
}

// NewWire opens the expert store, loads the postal-code table and wires the
// optional geocoder. Callers must Close the returned Wire.
func NewWire(ctx context.Context, cfg *config.Config) (_ *Wire, err error) {
	dialect, err := db.DialectFor(cfg.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}

	conn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}

	w := &Wire{DB: conn, Dialect: dialect}
	w.closers = append(w.closers, conn.Close)
	defer func() {
		if err != nil {
			_ = w.Close()
		}
	}()

	entries, err := LoadPostalCodes(ctx, cfg.PostalCodes)
	if err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}
	w.Table = postalcodes.NewTable(entries)
	log.Printf("postal codes loaded source=%s entries=%d", cfg.PostalCodes.Source, w.Table.Len())

	geocoder, err := w.newGeocoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("wire: %w", err)
	}

	w.Search = &services.ExpertSearch{
		Resolver:    services.NewGeoResolver(w.Table),
		Store:       repositories.NewSQLExpertRepository(conn, dialect),
		Geocoder:    geocoder,
		MaxRadiusKm: cfg.Search.MaxRadiusKm,
	}

	return w, nil
}

// LoadPostalCodes reads the postal-code snapshot from a file or from Postgres.
func LoadPostalCodes(ctx context.Context, cfg config.PostalCodesConfig) ([]domain.PostalCode, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Source)) {
	case "", "file":
		entries, err := postalcodes.LoadFile(cfg.Path, cfg.Format)
		if err != nil {
			return nil, fmt.Errorf("load postal codes: %w", err)
		}
		return entries, nil

	case "postgres":
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, errors.New("load postal codes: database_url is required for the postgres source")
		}

		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("load postal codes: connect: %w", err)
		}
		defer pool.Close()

		repo, err := postalcodes.NewPgxRepository(ctx, pool)
		if err != nil {
			return nil, fmt.Errorf("load postal codes: %w", err)
		}

		entries, err := repo.LoadAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("load postal codes: %w", err)
		}
		return entries, nil

	default:
		return nil, fmt.Errorf("load postal codes: unknown source %q", cfg.Source)
	}
}

func (w *Wire) newGeocoder(cfg *config.Config) (ports.Geocoder, error) {
	if !cfg.Geocoder.Enabled {
		return nil, nil
	}

	var gc ports.GeocodeCache
	switch strings.ToLower(cfg.Cache.Type) {
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Cache.RedisAddr})
		w.closers = append(w.closers, client.Close)
		gc = cache.NewRedisGeocodeCache(client, cfg.Cache.TTL)
	case "", "sql":
		gc = cache.NewSQLGeocodeCache(w.DB, w.Dialect)
	case "none":
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Cache.Type)
	}

	opts := []geocoding.ORSOption{geocoding.WithCountry(cfg.Geocoder.Country)}
	if cfg.Geocoder.BaseURL != "" {
		opts = append(opts, geocoding.WithBaseURL(cfg.Geocoder.BaseURL))
	}
	if gc != nil {
		opts = append(opts, geocoding.WithCache(gc))
	}

	g, err := geocoding.NewORSGeocoder(cfg.Geocoder.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Close releases resources in reverse order of acquisition.
func (w *Wire) Close() error {
	var errs []error
	for i := len(w.closers) - 1; i >= 0; i-- {
		if err := w.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	w.closers = nil
	return errors.Join(errs...)
}
