package domain

import "time"

// PostType is the record type served by the directory.
const PostType = "rfm_expert"

// Represents a published expert record in the directory.
// Latitude and Longitude hold the raw metadata strings as stored; they may be
// empty or malformed and are only parsed when the expert takes part in a
// radius search.
type Expert struct {
	ID          int64
	Title       string
	Category    string
	PostalCode  string
	City        string
	Latitude    string
	Longitude   string
	PublishedAt time.Time
}

// A record with location metadata eligible for radius filtering.
type Candidate struct {
	ID        int64
	Latitude  string
	Longitude string
}

// RankedExpert pairs an expert id with its distance from the search center.
type RankedExpert struct {
	ID         int64
	DistanceKm float64
}

// ExpertHit is an expert returned by a search, with its distance when the
// search was a radius search.
type ExpertHit struct {
	Expert     Expert
	DistanceKm *float64
}
