package domain

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	copenhagen := Coordinates{Lat: 55.6761, Lon: 12.5683}
	odense := Coordinates{Lat: 55.4038, Lon: 10.4024}

	tests := []struct {
		name     string
		a, b     Coordinates
		min, max float64
	}{
		{name: "same point", a: copenhagen, b: copenhagen, min: 0, max: 0},
		{name: "copenhagen to odense", a: copenhagen, b: odense, min: 135, max: 150},
		{name: "one degree of latitude", a: Coordinates{Lat: 0, Lon: 0}, b: Coordinates{Lat: 1, Lon: 0}, min: 111.1, max: 111.3},
		{name: "antipodal", a: Coordinates{Lat: 0, Lon: 0}, b: Coordinates{Lat: 0, Lon: 180}, min: math.Pi*EarthRadiusKm - 0.001, max: math.Pi*EarthRadiusKm + 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatalf("distance is NaN")
			}
			if got < tt.min || got > tt.max {
				t.Fatalf("distance = %.3f km, want within [%.3f, %.3f]", got, tt.min, tt.max)
			}
		})
	}
}

func TestHaversineKmSymmetric(t *testing.T) {
	a := Coordinates{Lat: 57.0488, Lon: 9.9217}
	b := Coordinates{Lat: 56.1629, Lon: 10.2039}

	if d1, d2 := HaversineKm(a, b), HaversineKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Fatalf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestCoordinatesValid(t *testing.T) {
	tests := []struct {
		c    Coordinates
		want bool
	}{
		{Coordinates{Lat: 55.4, Lon: 10.4}, true},
		{Coordinates{Lat: 90, Lon: -180}, true},
		{Coordinates{Lat: 90.01, Lon: 0}, false},
		{Coordinates{Lat: 0, Lon: 180.5}, false},
		{Coordinates{Lat: math.NaN(), Lon: 0}, false},
		{Coordinates{Lat: 0, Lon: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		if got := tt.c.Valid(); got != tt.want {
			t.Errorf("%+v.Valid() = %v, want %v", tt.c, got, tt.want)
		}
	}
}
