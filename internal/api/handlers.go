package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/halstein/pulse/internal/apperr"
	"github.com/halstein/pulse/internal/sse"
	"github.com/halstein/pulse/internal/store"
	"github.com/halstein/pulse/internal/tracker"
)

// Handler holds the API route handlers.
type Handler struct {
	projects *tracker.ProjectService
	updates  *tracker.UpdateService
	events   *sse.Broker // may be nil
}

// NewHandler creates a new Handler. broker may be nil when no event stream
// is attached.
func NewHandler(projects *tracker.ProjectService, updates *tracker.UpdateService, broker *sse.Broker) *Handler {
	return &Handler{projects: projects, updates: updates, events: broker}
}

func (h *Handler) publish(kind, entity, id string) {
	if h.events != nil {
		h.events.PublishRecordEvent(kind, entity, id)
	}
}

// failFrom translates a service error into the envelope. Validation errors
// surface their message; everything else is opaque.
func failFrom(w http.ResponseWriter, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, apperr.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// ListProjects handles GET /projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.ListAll(r.Context())
	if err != nil {
		failFrom(w, err, "not found")
		return
	}
	writeData(w, http.StatusOK, list)
}

// GetProject handles GET /projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	p, err := h.projects.GetByID(r.Context(), id)
	if err != nil {
		failFrom(w, err, "project not found")
		return
	}
	writeData(w, http.StatusOK, p)
}

// CreateProject handles POST /projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var in tracker.CreateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	p, err := h.projects.Create(r.Context(), in)
	if err != nil {
		failFrom(w, err, "project not found")
		return
	}
	h.publish("created", "project", p.ID)
	writeData(w, http.StatusCreated, p)
}

// UpdateProject handles PATCH /projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var in tracker.UpdateProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	p, err := h.projects.Update(r.Context(), id, in)
	if err != nil {
		failFrom(w, err, "project not found")
		return
	}
	h.publish("updated", "project", p.ID)
	writeData(w, http.StatusOK, p)
}

// DeleteProject handles DELETE /projects/{id}. Deleting an unknown id is
// not an error: the envelope reports removed=false.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := h.projects.Delete(r.Context(), id)
	if err != nil {
		failFrom(w, err, "project not found")
		return
	}
	if removed {
		h.publish("deleted", "project", id)
	}
	writeData(w, http.StatusOK, map[string]bool{"removed": removed})
}

// ListProjectUpdates handles GET /projects/{id}/updates.
func (h *Handler) ListProjectUpdates(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	list, err := h.updates.ListByProject(r.Context(), id)
	if err != nil {
		failFrom(w, err, "project not found")
		return
	}
	writeData(w, http.StatusOK, list)
}

// CreateUpdate handles POST /updates.
func (h *Handler) CreateUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var in tracker.CreateUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := h.updates.Create(r.Context(), in)
	if err != nil {
		failFrom(w, err, "project not found")
		return
	}
	h.publish("created", "update", u.ID)
	writeData(w, http.StatusCreated, u)
}

// EditUpdate handles PATCH /updates/{id}.
func (h *Handler) EditUpdate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	id := chi.URLParam(r, "id")
	var in tracker.EditUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	u, err := h.updates.Update(r.Context(), id, in)
	if err != nil {
		failFrom(w, err, "update not found")
		return
	}
	h.publish("updated", "update", u.ID)
	writeData(w, http.StatusOK, u)
}

// DeleteUpdate handles DELETE /updates/{id}.
func (h *Handler) DeleteUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	removed, err := h.updates.Delete(r.Context(), id)
	if err != nil {
		failFrom(w, err, "update not found")
		return
	}
	if removed {
		h.publish("deleted", "update", id)
	}
	writeData(w, http.StatusOK, map[string]bool{"removed": removed})
}

// SearchUpdates handles GET /search.
func (h *Handler) SearchUpdates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	hits, err := h.updates.Search(r.Context(), q, limit)
	if err != nil {
		failFrom(w, err, "not found")
		return
	}
	if hits == nil {
		hits = []store.SearchHit{}
	}
	writeData(w, http.StatusOK, hits)
}
