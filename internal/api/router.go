package api

import (
	"expert-directory-service/internal/api/handlers"
	"expert-directory-service/internal/services"
	"net/http"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// Handlers only see the search service, never concrete adapters.
func NewRouter(search *services.ExpertSearch) http.Handler {
	mux := http.NewServeMux()

	expertHandler := &handlers.ExpertHandler{Search: search}
	locationHandler := &handlers.LocationHandler{Search: search}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/experts", expertHandler.List)
	mux.HandleFunc("/locations/resolve", locationHandler.Resolve)

	return requestIDMiddleware(loggingMiddleware(mux))
}
