package dto

import "time"

type ExpertResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Category    string     `json:"category"`
	PostalCode  string     `json:"postal_code"`
	City        string     `json:"city"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	DistanceKm  *float64   `json:"distance_km,omitempty"`
}

type CoordinatesResponse struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type SearchExpertsResponse struct {
	Mode     string               `json:"mode"`
	Center   *CoordinatesResponse `json:"center,omitempty"`
	RadiusKm float64              `json:"radius_km,omitempty"`
	Skipped  int                  `json:"skipped,omitempty"`
	Count    int                  `json:"count"`
	Experts  []ExpertResponse     `json:"experts"`
}
