package ports

import (
	"context"
	"expert-directory-service/internal/domain"
)

// Contract for resolving free-text locations through an external service.
type Geocoder interface {
	// Return coordinates for a location, or domain.ErrLocationNotFound.
	Geocode(ctx context.Context, location string) (domain.Coordinates, error)
}

// Persistent mapping of normalized location strings to coordinates.
type GeocodeCache interface {
	GetMany(ctx context.Context, locations []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
