package geocoding

import (
	"context"
	"expert-directory-service/internal/domain"
	"fmt"
	"strings"
)

// MockGeocoder resolves locations from a fixed map, ignoring case.
// Locations listed in Fail return Err instead.
type MockGeocoder struct {
	m     map[string]domain.Coordinates
	Fail  map[string]bool
	Err   error
	Calls int
}

func NewMockGeocoder(m map[string]domain.Coordinates) *MockGeocoder {
	norm := make(map[string]domain.Coordinates, len(m))
	for k, v := range m {
		norm[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return &MockGeocoder{m: norm, Fail: map[string]bool{}}
}

func (g *MockGeocoder) Geocode(ctx context.Context, location string) (domain.Coordinates, error) {
	g.Calls++

	key := strings.ToLower(strings.TrimSpace(location))
	if g.Fail[key] {
		return domain.Coordinates{}, g.Err
	}

	c, ok := g.m[key]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("mock geocode %q: %w", location, domain.ErrLocationNotFound)
	}

	return c, nil
}
