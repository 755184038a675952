package services

import (
	"expert-directory-service/internal/domain"
	"math"
	"math/rand"
	"strconv"
	"testing"
)

var copenhagen = domain.Coordinates{Lat: 55.6761, Lon: 12.5683}

func candidate(id int64, lat, lon float64) domain.Candidate {
	return domain.Candidate{
		ID:        id,
		Latitude:  strconv.FormatFloat(lat, 'f', -1, 64),
		Longitude: strconv.FormatFloat(lon, 'f', -1, 64),
	}
}

func rankedIDs(r []domain.RankedExpert) []int64 {
	out := make([]int64, 0, len(r))
	for _, x := range r {
		out = append(out, x.ID)
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterWithinRadiusKnownDistance(t *testing.T) {
	odense := domain.Candidate{ID: 7, Latitude: "55.4038", Longitude: "10.4024"}

	ranked, skipped := FilterWithinRadius(copenhagen, 150, []domain.Candidate{odense})
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(ranked) != 1 || ranked[0].ID != 7 {
		t.Fatalf("expected odense within 150 km, got %+v", ranked)
	}
	if d := ranked[0].DistanceKm; d < 135 || d > 150 {
		t.Fatalf("distance = %.2f km, want roughly 140 km", d)
	}

	ranked, _ = FilterWithinRadius(copenhagen, 100, []domain.Candidate{odense})
	if len(ranked) != 0 {
		t.Fatalf("expected odense outside 100 km, got %+v", ranked)
	}
}

func TestFilterWithinRadiusNonPositiveRadius(t *testing.T) {
	candidates := []domain.Candidate{candidate(1, copenhagen.Lat, copenhagen.Lon)}

	for _, radius := range []float64{0, -1, -0.0001, math.NaN()} {
		ranked, skipped := FilterWithinRadius(copenhagen, radius, candidates)
		if ranked == nil {
			t.Fatalf("radius %v: result must be empty, not nil", radius)
		}
		if len(ranked) != 0 || skipped != 0 {
			t.Fatalf("radius %v: got %+v skipped=%d, want empty", radius, ranked, skipped)
		}
	}
}

func TestFilterWithinRadiusInclusiveBoundary(t *testing.T) {
	target := domain.Coordinates{Lat: 55.4038, Lon: 10.4024}
	exact := domain.HaversineKm(copenhagen, target)

	candidates := []domain.Candidate{candidate(1, target.Lat, target.Lon)}

	ranked, _ := FilterWithinRadius(copenhagen, exact, candidates)
	if len(ranked) != 1 {
		t.Fatalf("candidate exactly at radius must be included, got %+v", ranked)
	}

	ranked, _ = FilterWithinRadius(copenhagen, math.Nextafter(exact, 0), candidates)
	if len(ranked) != 0 {
		t.Fatalf("candidate just beyond radius must be excluded, got %+v", ranked)
	}
}

func TestFilterWithinRadiusSortedAndStable(t *testing.T) {
	// Candidates 2 and 4 share a location, as do 3 and 5.
	candidates := []domain.Candidate{
		candidate(1, 55.70, 12.60),
		candidate(2, 55.40, 10.40),
		candidate(3, 55.68, 12.57),
		candidate(4, 55.40, 10.40),
		candidate(5, 55.68, 12.57),
		candidate(6, 56.16, 10.20),
	}

	ranked, skipped := FilterWithinRadius(copenhagen, 500, candidates)
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}

	want := []int64{3, 5, 1, 2, 4, 6}
	if got := rankedIDs(ranked); !equalIDs(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestFilterWithinRadiusAnyPermutation(t *testing.T) {
	base := []domain.Candidate{
		candidate(1, 55.70, 12.60),
		candidate(2, 55.40, 10.40),
		candidate(3, 56.16, 10.20),
		candidate(4, 57.05, 9.92),
		candidate(5, 54.91, 9.79),
		candidate(6, 55.68, 12.57),
	}

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 25; i++ {
		perm := make([]domain.Candidate, len(base))
		copy(perm, base)
		rng.Shuffle(len(perm), func(a, b int) { perm[a], perm[b] = perm[b], perm[a] })

		ranked, _ := FilterWithinRadius(copenhagen, 1000, perm)
		if len(ranked) != len(base) {
			t.Fatalf("permutation %d: got %d results, want %d", i, len(ranked), len(base))
		}
		for j := 1; j < len(ranked); j++ {
			if ranked[j-1].DistanceKm > ranked[j].DistanceKm {
				t.Fatalf("permutation %d: not sorted at %d: %+v", i, j, ranked)
			}
		}
	}
}

func TestFilterWithinRadiusSkipsMalformed(t *testing.T) {
	valid := []domain.Candidate{
		candidate(1, 55.70, 12.60),
		candidate(2, 55.40, 10.40),
		candidate(3, 55.68, 12.57),
	}

	withBad := []domain.Candidate{
		{ID: 90, Latitude: "north", Longitude: "12.5"},
		valid[0],
		{ID: 91, Latitude: "55.6", Longitude: ""},
		valid[1],
		{ID: 92, Latitude: "91", Longitude: "12.5"},
		{ID: 93, Latitude: "55.6", Longitude: "-180.5"},
		{ID: 94, Latitude: "NaN", Longitude: "12.5"},
		{ID: 95, Latitude: "55.6", Longitude: "+Inf"},
		valid[2],
	}

	clean, _ := FilterWithinRadius(copenhagen, 300, valid)
	ranked, skipped := FilterWithinRadius(copenhagen, 300, withBad)

	if skipped != 6 {
		t.Fatalf("skipped = %d, want 6", skipped)
	}
	if got, want := rankedIDs(ranked), rankedIDs(clean); !equalIDs(got, want) {
		t.Fatalf("malformed candidates changed ranking: got %v, want %v", got, want)
	}
}

func TestFilterWithinRadiusAcceptsPaddedNumbers(t *testing.T) {
	ranked, skipped := FilterWithinRadius(copenhagen, 10, []domain.Candidate{
		{ID: 1, Latitude: " 55.6761 ", Longitude: "12.5683\n"},
	})
	if skipped != 0 || len(ranked) != 1 {
		t.Fatalf("got %+v skipped=%d, want one match", ranked, skipped)
	}
	if ranked[0].DistanceKm != 0 {
		t.Fatalf("distance = %v, want 0", ranked[0].DistanceKm)
	}
}

func TestFilterWithinRadiusEmptyInput(t *testing.T) {
	ranked, skipped := FilterWithinRadius(copenhagen, 50, nil)
	if ranked == nil || len(ranked) != 0 || skipped != 0 {
		t.Fatalf("got %+v skipped=%d, want empty", ranked, skipped)
	}
}
