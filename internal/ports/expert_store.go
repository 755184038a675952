package ports

import (
	"context"
	"expert-directory-service/internal/domain"
)

// Port: a boundary for retrieving published Expert records.
type ExpertStore interface {
	// Return published experts matching the query's text, category and location text.
	FindByTypeAndFilters(ctx context.Context, q domain.ExpertQuery) ([]domain.Expert, error)
	// Return experts for ids in the given order. Unknown ids are dropped.
	FindByIDsOrdered(ctx context.Context, ids []int64) ([]domain.Expert, error)
	// Return published experts with non-empty latitude and longitude.
	ListCandidates(ctx context.Context, q domain.ExpertQuery) ([]domain.Candidate, error)
}
