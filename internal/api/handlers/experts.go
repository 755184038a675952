package handlers

import (
	"errors"
	"expert-directory-service/internal/api/dto"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/services"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
)

const maxLimit = 200

// ExpertHandler serves expert listing and radius search.
type ExpertHandler struct {
	Search *services.ExpertSearch
}

func (h *ExpertHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()

	radius, err := parseRadius(q.Get("radius"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "radius must be a non-negative number")
		return
	}

	sort, err := domain.ParseSortKey(q.Get("sort"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "sort must be one of relevance, title, newest, distance")
		return
	}

	limit := 0
	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil || limit < 1 || limit > maxLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
	}

	req := services.SearchRequest{
		Text:     q.Get("q"),
		Category: q.Get("category"),
		Location: q.Get("location"),
		RadiusKm: radius,
		Sort:     sort,
		Limit:    limit,
	}

	res, err := h.Search.Search(r.Context(), req)
	if errors.Is(err, domain.ErrInvalidQuery) {
		writeError(w, r, http.StatusBadRequest, "invalid query")
		return
	}
	if err != nil {
		log.Printf("search experts failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	out := dto.SearchExpertsResponse{
		Mode:    string(res.Mode),
		Skipped: res.Skipped,
		Count:   len(res.Hits),
		Experts: make([]dto.ExpertResponse, 0, len(res.Hits)),
	}
	if res.Center != nil {
		out.Center = &dto.CoordinatesResponse{Lat: res.Center.Lat, Lon: res.Center.Lon}
		out.RadiusKm = res.RadiusKm
	}
	for _, hit := range res.Hits {
		e := hit.Expert
		item := dto.ExpertResponse{
			ID:         e.ID,
			Title:      e.Title,
			Category:   e.Category,
			PostalCode: e.PostalCode,
			City:       e.City,
			DistanceKm: hit.DistanceKm,
		}
		if !e.PublishedAt.IsZero() {
			published := e.PublishedAt
			item.PublishedAt = &published
		}
		out.Experts = append(out.Experts, item)
	}

	writeJSON(w, r, http.StatusOK, out)
}

// parseRadius treats an empty value as zero and rejects anything that is not
// a finite non-negative number.
func parseRadius(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, domain.ErrInvalidQuery
	}

	return v, nil
}
