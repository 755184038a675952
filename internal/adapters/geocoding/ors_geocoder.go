package geocoding

import (
	"context"
	"errors"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/obs"
	"expert-directory-service/internal/ports"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ORSGeocoder implements ports.Geocoder using the OpenRouteService
// /geocode/search endpoint.
//
// It coordinates:
//   - Location normalization
//   - Persistent geocode caching (optional)
//   - External API calls with retry/backoff
//
// The geocoder is safe for concurrent use.
type ORSGeocoder struct {
	session     *http.Client
	apiKey      string
	baseURL     string
	country     string
	cache       ports.GeocodeCache
	maxAttempts int
	backoff     time.Duration
}

type ORSOption func(*ORSGeocoder)

func WithBaseURL(u string) ORSOption {
	return func(o *ORSGeocoder) { o.baseURL = strings.TrimRight(u, "/") }
}

// WithCountry restricts results to an ISO 3166 country code. Empty disables it.
func WithCountry(code string) ORSOption {
	return func(o *ORSGeocoder) { o.country = strings.ToUpper(strings.TrimSpace(code)) }
}

func WithCache(c ports.GeocodeCache) ORSOption {
	return func(o *ORSGeocoder) { o.cache = c }
}

func WithHTTPClient(c *http.Client) ORSOption {
	return func(o *ORSGeocoder) { o.session = c }
}

func WithRetry(attempts int, backoff time.Duration) ORSOption {
	return func(o *ORSGeocoder) {
		if attempts > 0 {
			o.maxAttempts = attempts
		}
		if backoff > 0 {
			o.backoff = backoff
		}
	}
}

func NewORSGeocoder(apiKey string, opts ...ORSOption) (*ORSGeocoder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	g := &ORSGeocoder{
		session:     &http.Client{Timeout: 10 * time.Second},
		apiKey:      apiKey,
		baseURL:     "https://api.openrouteservice.org",
		country:     "DK",
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// normalize ensures consistent cache keys by collapsing whitespace and case.
func (o *ORSGeocoder) normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Geocode resolves a location to the first ORS match.
// It returns domain.ErrLocationNotFound when ORS has no features for it.
func (o *ORSGeocoder) Geocode(ctx context.Context, location string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	key := o.normalize(location)
	if key == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: empty location: %w", domain.ErrLocationNotFound)
	}

	// Check persistent cache before issuing external API calls.
	if o.cache != nil {
		hits, err := o.cache.GetMany(ctx, []string{key})
		if err != nil {
			log.Printf("geocode cache read failed: %v", err)
		} else if c, ok := hits[key]; ok {
			return c, nil
		}
	}

	params := map[string]string{"text": key, "size": "1"}
	if o.country != "" {
		params["boundary.country"] = o.country
	}

	endpoint := o.baseURL + "/geocode/search"
	body, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, endpoint, params)
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: execute request: %w", key, err)
	}

	coords, err := parseGeocodeResponse(body)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w", key, err)
	}

	if o.cache != nil {
		if err := o.cache.PutMany(ctx, map[string]domain.Coordinates{key: coords}); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return coords, nil
}

// parseGeocodeResponse extracts the first feature's [lon, lat] pair from a
// GeoJSON FeatureCollection.
func parseGeocodeResponse(body []byte) (domain.Coordinates, error) {
	if !gjson.ValidBytes(body) {
		return domain.Coordinates{}, errors.New("decode geocode response: invalid json")
	}

	if gjson.GetBytes(body, "features.#").Int() == 0 {
		return domain.Coordinates{}, domain.ErrLocationNotFound
	}

	pair := gjson.GetBytes(body, "features.0.geometry.coordinates").Array()
	if len(pair) != 2 {
		return domain.Coordinates{}, errors.New("decode geocode response: invalid coordinate format")
	}

	c := domain.Coordinates{Lon: pair[0].Float(), Lat: pair[1].Float()}
	if !c.Valid() {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: coordinates out of range lat=%v lon=%v", c.Lat, c.Lon)
	}

	return c, nil
}
