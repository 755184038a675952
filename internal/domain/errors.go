package domain

import "errors"

var (
	// ErrLocationNotFound means neither a postal code nor a city matched.
	// Callers fall back to a text search.
	ErrLocationNotFound = errors.New("location not found")

	// ErrInvalidQuery marks caller input that cannot form a search.
	ErrInvalidQuery = errors.New("invalid query")
)
