package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration. Values come from an optional YAML file
// and are then overridden by environment variables.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	PostalCodes PostalCodesConfig `yaml:"postal_codes"`
	Geocoder    GeocoderConfig    `yaml:"geocoder"`
	Cache       CacheConfig       `yaml:"cache"`
	Search      SearchConfig      `yaml:"search"`
}

type ServerConfig struct {
	Port     string        `yaml:"port"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
}

type TimeoutConfig struct {
	ReadHeader time.Duration `yaml:"read_header"`
	Read       time.Duration `yaml:"read"`
	Write      time.Duration `yaml:"write"`
	Idle       time.Duration `yaml:"idle"`
}

type DatabaseConfig struct {
	// Driver is "sqlite" or "pgx".
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
	SeedPath string `yaml:"seed_path"`
}

type PostalCodesConfig struct {
	// Source is "file" or "postgres".
	Source string `yaml:"source"`
	Path   string `yaml:"path"`
	// Format is "csv" or "dbf"; empty picks by file extension.
	Format      string `yaml:"format"`
	DatabaseURL string `yaml:"database_url"`
}

type GeocoderConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Country string `yaml:"country"`
}

type CacheConfig struct {
	// Type is "sql" or "redis".
	Type      string        `yaml:"type"`
	RedisAddr string        `yaml:"redis_addr"`
	TTL       time.Duration `yaml:"ttl"`
}

type SearchConfig struct {
	MaxRadiusKm float64 `yaml:"max_radius_km"`
}

// Default returns the configuration used for local runs.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port: "8080",
			Timeouts: TimeoutConfig{
				ReadHeader: 5 * time.Second,
				Read:       10 * time.Second,
				Write:      30 * time.Second,
				Idle:       60 * time.Second,
			},
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			DSN:      "data/app.db",
			SeedPath: "data/seeds/experts.json",
		},
		PostalCodes: PostalCodesConfig{
			Source: "file",
			Path:   "data/postcodes/dk_sample.csv",
		},
		Geocoder: GeocoderConfig{
			Country: "DK",
		},
		Cache: CacheConfig{
			Type: "sql",
			TTL:  30 * 24 * time.Hour,
		},
		Search: SearchConfig{
			MaxRadiusKm: 500,
		},
	}
}

// Load reads the YAML file at path on top of Default and applies environment
// overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("load config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("load config: parse %q: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Port = Get("PORT", c.Server.Port)

	c.Database.Driver = Get("DB_DRIVER", c.Database.Driver)
	c.Database.DSN = Get("DATABASE_URL", Get("DB_PATH", c.Database.DSN))
	c.Database.SeedPath = Get("SEED_PATH", c.Database.SeedPath)

	c.PostalCodes.Source = Get("POSTCODES_SOURCE", c.PostalCodes.Source)
	c.PostalCodes.Path = Get("POSTCODES_PATH", c.PostalCodes.Path)
	c.PostalCodes.Format = Get("POSTCODES_FORMAT", c.PostalCodes.Format)
	c.PostalCodes.DatabaseURL = Get("POSTCODES_DATABASE_URL", c.PostalCodes.DatabaseURL)

	c.Geocoder.APIKey = Get("ORS_API_KEY", c.Geocoder.APIKey)
	c.Geocoder.BaseURL = Get("ORS_BASE_URL", c.Geocoder.BaseURL)
	c.Geocoder.Country = Get("ORS_COUNTRY", c.Geocoder.Country)
	if strings.TrimSpace(c.Geocoder.APIKey) != "" {
		c.Geocoder.Enabled = true
	}

	c.Cache.Type = Get("CACHE_TYPE", c.Cache.Type)
	c.Cache.RedisAddr = Get("REDIS_ADDR", c.Cache.RedisAddr)
	if v := os.Getenv("CACHE_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CACHE_TTL %q: %w", v, err)
		}
		c.Cache.TTL = ttl
	}

	if v := os.Getenv("MAX_RADIUS_KM"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			return fmt.Errorf("MAX_RADIUS_KM %q: must be a positive number", v)
		}
		c.Search.MaxRadiusKm = r
	}

	return nil
}

// Get returns the environment variable key, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
