package services

import (
	"expert-directory-service/internal/domain"
	"slices"
	"strconv"
	"strings"
)

// FilterWithinRadius returns the candidates whose great-circle distance from
// center is at most radiusKm, nearest first.
//
// Equal distances keep the candidates' input order. Candidates whose latitude
// or longitude does not parse to a finite, in-range number are dropped and
// counted in skipped. A radius that is not strictly positive yields an empty
// result.
func FilterWithinRadius(
	center domain.Coordinates,
	radiusKm float64,
	candidates []domain.Candidate,
) (ranked []domain.RankedExpert, skipped int) {
	ranked = []domain.RankedExpert{}

	if !(radiusKm > 0) || !center.Valid() {
		return ranked, 0
	}

	for _, c := range candidates {
		coord, ok := parseCandidate(c)
		if !ok {
			skipped++
			continue
		}

		d := domain.HaversineKm(center, coord)
		if d <= radiusKm {
			ranked = append(ranked, domain.RankedExpert{ID: c.ID, DistanceKm: d})
		}
	}

	slices.SortStableFunc(ranked, func(a, b domain.RankedExpert) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		default:
			return 0
		}
	})

	return ranked, skipped
}

func parseCandidate(c domain.Candidate) (domain.Coordinates, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(c.Latitude), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}

	lon, err := strconv.ParseFloat(strings.TrimSpace(c.Longitude), 64)
	if err != nil {
		return domain.Coordinates{}, false
	}

	coord := domain.Coordinates{Lat: lat, Lon: lon}
	if !coord.Valid() {
		return domain.Coordinates{}, false
	}

	return coord, true
}
