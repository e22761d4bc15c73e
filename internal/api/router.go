package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/halstein/pulse/internal/sse"
	"github.com/halstein/pulse/internal/tracker"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// broker, if non-nil, receives record events and is mounted at GET /events.
func NewRouter(projects *tracker.ProjectService, updates *tracker.UpdateService, authEnabled bool, token string, broker *sse.Broker) chi.Router {
	h := NewHandler(projects, updates, broker)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Projects CRUD.
	r.Get("/projects", h.ListProjects)
	r.Post("/projects", h.CreateProject)
	r.Get("/projects/{id}", h.GetProject)
	r.Patch("/projects/{id}", h.UpdateProject)
	r.Delete("/projects/{id}", h.DeleteProject)
	r.Get("/projects/{id}/updates", h.ListProjectUpdates)

	// Updates.
	r.Post("/updates", h.CreateUpdate)
	r.Patch("/updates/{id}", h.EditUpdate)
	r.Delete("/updates/{id}", h.DeleteUpdate)

	// Search over update plain text.
	r.Get("/search", h.SearchUpdates)

	// SSE endpoint (protected by the same auth middleware).
	if broker != nil {
		r.Method(http.MethodGet, "/events", broker)
	}

	return r
}
