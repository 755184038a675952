package services

import (
	"errors"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/ports"
	"fmt"
	"reflect"
	"strings"
)

// GeoResolver turns a free-text location into coordinates using a
// postal-code table snapshot. It holds no mutable state and is safe for
// concurrent use.
type GeoResolver struct {
	table ports.PostalCodeTable
}

func NewGeoResolver(table ports.PostalCodeTable) *GeoResolver {
	return &GeoResolver{table: table}
}

// Resolve looks the text up as a postal code first, then as a city name.
//
// It returns domain.ErrLocationNotFound when neither matches. City names that
// span several postal codes resolve to the table's representative entry, which
// is the numerically lowest postal code.
func (g *GeoResolver) Resolve(location string) (domain.Coordinates, error) {
	if g == nil || !tableAvailable(g.table) {
		return domain.Coordinates{}, errors.New("resolve location: postal code table is unavailable")
	}

	text := strings.TrimSpace(location)
	if text == "" {
		return domain.Coordinates{}, fmt.Errorf("resolve location: empty input: %w", domain.ErrLocationNotFound)
	}

	if pc, ok := g.table.LookupPostalCode(text); ok {
		return pc.Coordinates, nil
	}

	if pc, ok := g.table.LookupCity(text); ok {
		return pc.Coordinates, nil
	}

	return domain.Coordinates{}, fmt.Errorf("resolve location %q: %w", text, domain.ErrLocationNotFound)
}

// tableAvailable reports false for a nil interface and for an interface
// holding a nil pointer.
func tableAvailable(t ports.PostalCodeTable) bool {
	if t == nil {
		return false
	}
	v := reflect.ValueOf(t)
	return !(v.Kind() == reflect.Ptr && v.IsNil())
}
