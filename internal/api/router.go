package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
func NewRouter(svc *Service, authEnabled bool, token string, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Published catalog.
	r.Get("/items", h.ListItems)
	r.Get("/search", h.Search)

	// Item actions.
	r.Post("/items/{id}/actions/{action}", h.RunAction)

	// Profiles and settings.
	r.Get("/profiles", h.ListProfiles)
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)

	// Manual rebuild.
	r.Post("/rebuild", h.TriggerRebuild)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
