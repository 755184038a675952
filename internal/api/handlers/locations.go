package handlers

import (
	"errors"
	"expert-directory-service/internal/api/dto"
	"expert-directory-service/internal/domain"
	"expert-directory-service/internal/services"
	"log"
	"net/http"
	"strings"
)

// LocationHandler exposes location resolution for clients that want to show
// the search center before running a search.
type LocationHandler struct {
	Search *services.ExpertSearch
}

func (h *LocationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	location := strings.TrimSpace(r.URL.Query().Get("location"))
	if location == "" {
		writeError(w, r, http.StatusBadRequest, "location is required")
		return
	}

	c, err := h.Search.ResolveLocation(r.Context(), location)
	if errors.Is(err, domain.ErrLocationNotFound) {
		writeError(w, r, http.StatusNotFound, "location not found")
		return
	}
	if err != nil {
		log.Printf("resolve location failed: location=%q err=%v", location, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ResolveLocationResponse{
		Location:    location,
		Coordinates: dto.CoordinatesResponse{Lat: c.Lat, Lon: c.Lon},
	})
}
