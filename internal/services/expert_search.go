package services

import (
	"context"
	"errors"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/platform/obs"
	"expert-directory-service/internal/ports"
	"fmt"
	"log"
	"math"
)

// DefaultMaxRadiusKm caps radius searches when ExpertSearch.MaxRadiusKm is unset.
const DefaultMaxRadiusKm = 500.0

// SearchMode reports which strategy produced a search result.
type SearchMode string

const (
	// No location was given; plain filtered listing.
	ModeListing SearchMode = "listing"
	// The location was matched as text against postal code and city.
	ModeText SearchMode = "text"
	// The location was resolved and experts were filtered by distance.
	ModeRadius SearchMode = "radius"
)

type SearchRequest struct {
	Text     string
	Category string
	Location string
	RadiusKm float64
	Sort     domain.SortKey
	Limit    int
}

type SearchResult struct {
	Mode   SearchMode
	Center *domain.Coordinates
	// RadiusKm is the radius applied after clamping; zero outside radius mode.
	RadiusKm float64
	Hits     []domain.ExpertHit
	Skipped  int
}

// ExpertSearch coordinates location resolution, the record store and the
// radius filter. Geocoder is optional and only consulted when the postal-code
// table has no match.
type ExpertSearch struct {
	Resolver    *GeoResolver
	Store       ports.ExpertStore
	Geocoder    ports.Geocoder
	MaxRadiusKm float64
}

func (s *ExpertSearch) Search(ctx context.Context, req SearchRequest) (_ *SearchResult, err error) {
	defer obs.Time(ctx, "experts.Search")(&err)

	if s.Store == nil {
		return nil, errors.New("search experts: store is nil")
	}

	if math.IsNaN(req.RadiusKm) || math.IsInf(req.RadiusKm, 0) || req.RadiusKm < 0 {
		return nil, fmt.Errorf("search experts: radius %v: %w", req.RadiusKm, domain.ErrInvalidQuery)
	}

	radius := req.RadiusKm
	maxRadius := s.MaxRadiusKm
	if maxRadius <= 0 {
		maxRadius = DefaultMaxRadiusKm
	}
	if radius > maxRadius {
		radius = maxRadius
	}

	q := domain.NewExpertQuery(
		domain.WithText(req.Text),
		domain.WithCategory(req.Category),
		domain.WithLocation(req.Location, radius),
		domain.WithSort(req.Sort),
		domain.WithLimit(req.Limit),
	)

	if q.Location == nil {
		return s.listing(ctx, q, ModeListing)
	}

	if q.Location.RadiusKm == 0 {
		return s.listing(ctx, q, ModeText)
	}

	center, err := s.resolve(ctx, q.Location.Text)
	if errors.Is(err, domain.ErrLocationNotFound) {
		return s.listing(ctx, q, ModeText)
	}
	if err != nil {
		return nil, fmt.Errorf("search experts: %w", err)
	}

	return s.radius(ctx, q, center)
}

func (s *ExpertSearch) listing(ctx context.Context, q domain.ExpertQuery, mode SearchMode) (*SearchResult, error) {
	experts, err := s.Store.FindByTypeAndFilters(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search experts: find by filters: %w", err)
	}

	hits := make([]domain.ExpertHit, 0, len(experts))
	for _, e := range experts {
		hits = append(hits, domain.ExpertHit{Expert: e})
	}

	return &SearchResult{Mode: mode, Hits: hits}, nil
}

func (s *ExpertSearch) radius(ctx context.Context, q domain.ExpertQuery, center domain.Coordinates) (*SearchResult, error) {
	candidates, err := s.Store.ListCandidates(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search experts: list candidates: %w", err)
	}

	ranked, skipped := FilterWithinRadius(center, q.Location.RadiusKm, candidates)
	if skipped > 0 {
		log.Printf("radius search skipped malformed candidates location=%q skipped=%d", q.Location.Text, skipped)
	}

	if q.Limit > 0 && len(ranked) > q.Limit {
		ranked = ranked[:q.Limit]
	}

	res := &SearchResult{
		Mode:     ModeRadius,
		Center:   &center,
		RadiusKm: q.Location.RadiusKm,
		Hits:     []domain.ExpertHit{},
		Skipped:  skipped,
	}
	if len(ranked) == 0 {
		return res, nil
	}

	ids := make([]int64, 0, len(ranked))
	distances := make(map[int64]float64, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.ID)
		distances[r.ID] = r.DistanceKm
	}

	experts, err := s.Store.FindByIDsOrdered(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("search experts: find by ids: %w", err)
	}

	for _, e := range experts {
		d, ok := distances[e.ID]
		if !ok {
			continue
		}
		res.Hits = append(res.Hits, domain.ExpertHit{Expert: e, DistanceKm: &d})
	}

	return res, nil
}

// resolve consults the postal-code table, then the optional geocoder.
// Geocoder failures degrade to ErrLocationNotFound so the caller can fall back
// to a text match.
func (s *ExpertSearch) resolve(ctx context.Context, location string) (domain.Coordinates, error) {
	center, err := s.Resolver.Resolve(location)
	if err == nil || !errors.Is(err, domain.ErrLocationNotFound) || s.Geocoder == nil {
		return center, err
	}

	coords, gerr := s.Geocoder.Geocode(ctx, location)
	if gerr != nil {
		if !errors.Is(gerr, domain.ErrLocationNotFound) {
			log.Printf("geocoder fallback failed location=%q err=%v", location, gerr)
		}
		return domain.Coordinates{}, err
	}

	if !coords.Valid() {
		log.Printf("geocoder returned invalid coordinates location=%q lat=%v lon=%v", location, coords.Lat, coords.Lon)
		return domain.Coordinates{}, err
	}

	return coords, nil
}

// ResolveLocation exposes the same resolution chain used by Search.
func (s *ExpertSearch) ResolveLocation(ctx context.Context, location string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "locations.Resolve")(&err)
	return s.resolve(ctx, location)
}
