package domain

import (
	"fmt"
	"strings"
)

// SortKey selects the ordering of listing and text-fallback searches.
// Radius searches are always ordered by distance.
type SortKey string

const (
	SortRelevance SortKey = "relevance"
	SortTitle     SortKey = "title"
	SortNewest    SortKey = "newest"
	SortDistance  SortKey = "distance"
)

// ParseSortKey maps a request value to a SortKey. Empty maps to SortRelevance.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return SortRelevance, nil
	case SortRelevance, SortTitle, SortNewest, SortDistance:
		return k, nil
	default:
		return "", fmt.Errorf("parse sort key %q: %w", s, ErrInvalidQuery)
	}
}

// Free-text location and a radius in kilometers.
// A zero radius means the location is matched as text.
type LocationQuery struct {
	Text     string
	RadiusKm float64
}

// ExpertQuery is the typed filter and sort specification handed to the store.
// Build it with NewExpertQuery; the zero value lists every published expert.
type ExpertQuery struct {
	Text     string
	Category string
	Location *LocationQuery
	Sort     SortKey
	Limit    int
}

type QueryOption func(ExpertQuery) ExpertQuery

func NewExpertQuery(opts ...QueryOption) ExpertQuery {
	q := ExpertQuery{Sort: SortRelevance}
	for _, opt := range opts {
		q = opt(q)
	}
	return q
}

func WithText(text string) QueryOption {
	return func(q ExpertQuery) ExpertQuery {
		q.Text = strings.TrimSpace(text)
		return q
	}
}

func WithCategory(category string) QueryOption {
	return func(q ExpertQuery) ExpertQuery {
		q.Category = strings.TrimSpace(category)
		return q
	}
}

// WithLocation sets the location filter. Blank text clears it.
func WithLocation(text string, radiusKm float64) QueryOption {
	return func(q ExpertQuery) ExpertQuery {
		text = strings.TrimSpace(text)
		if text == "" {
			q.Location = nil
			return q
		}
		q.Location = &LocationQuery{Text: text, RadiusKm: radiusKm}
		return q
	}
}

func WithSort(key SortKey) QueryOption {
	return func(q ExpertQuery) ExpertQuery {
		if key == "" {
			key = SortRelevance
		}
		q.Sort = key
		return q
	}
}

func WithLimit(limit int) QueryOption {
	return func(q ExpertQuery) ExpertQuery {
		if limit < 0 {
			limit = 0
		}
		q.Limit = limit
		return q
	}
}

// LocationText returns the location text, or "" when no location is set.
func (q ExpertQuery) LocationText() string {
	if q.Location == nil {
		return ""
	}
	return q.Location.Text
}
