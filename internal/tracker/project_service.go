// Package tracker implements the validated record services for projects
// and their updates.
package tracker

import (
	"context"
	"fmt"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/halstein/pulse/internal/apperr"
	"github.com/halstein/pulse/internal/models"
	"github.com/halstein/pulse/internal/store"
)

var colorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// CreateProjectInput is the payload for ProjectService.Create.
type CreateProjectInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// Validate checks field bounds before any storage access.
func (in CreateProjectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&in.Description, validation.Length(0, 500)),
		validation.Field(&in.Status, validation.In(statusValues()...)),
		validation.Field(&in.Color, validation.Match(colorRe)),
		validation.Field(&in.Icon, validation.Length(0, 32)),
	)
}

// UpdateProjectInput is the payload for ProjectService.Update. Nil fields
// are left untouched.
type UpdateProjectInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Color       *string `json:"color,omitempty"`
	Icon        *string `json:"icon,omitempty"`
	IsPublished *bool   `json:"is_published,omitempty"`
}

// Validate checks every supplied field.
func (in UpdateProjectInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&in.Description, validation.Length(0, 500)),
		validation.Field(&in.Status, validation.In(statusValues()...)),
		validation.Field(&in.Color, validation.Match(colorRe)),
		validation.Field(&in.Icon, validation.Length(0, 32)),
	)
}

func statusValues() []any {
	out := make([]any, len(models.ProjectStatuses))
	for i, s := range models.ProjectStatuses {
		out[i] = s
	}
	return out
}

// ProjectService implements validated CRUD over projects.
type ProjectService struct {
	store *store.Store
}

// NewProjectService creates a new project service.
func NewProjectService(s *store.Store) *ProjectService {
	return &ProjectService{store: s}
}

// ListAll returns every project, most recently updated first, each
// annotated with its updates (newest first) and the single latest update.
func (s *ProjectService) ListAll(_ context.Context) ([]models.ProjectWithUpdates, error) {
	projects, err := s.store.ListProjects()
	if err != nil {
		return nil, err
	}
	out := make([]models.ProjectWithUpdates, 0, len(projects))
	for _, p := range projects {
		annotated, err := s.annotate(p)
		if err != nil {
			return nil, err
		}
		out = append(out, *annotated)
	}
	return out, nil
}

// GetByID returns a single project with the same update annotations, or
// apperr.ErrNotFound.
func (s *ProjectService) GetByID(_ context.Context, id string) (*models.ProjectWithUpdates, error) {
	p, err := s.store.GetProject(id)
	if err != nil {
		return nil, err
	}
	return s.annotate(*p)
}

// Create validates input, applies defaults, and persists a new project.
func (s *ProjectService) Create(_ context.Context, in CreateProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err)
	}

	now := time.Now().UTC()
	p := models.Project{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Status:    models.StatusActive,
		Color:     in.Color,
		Icon:      in.Icon,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}

	if err := s.store.InsertProject(p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies the supplied fields only; updated_at is refreshed
// regardless of which fields changed. Returns the post-update record.
func (s *ProjectService) Update(_ context.Context, id string, in UpdateProjectInput) (*models.Project, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err)
	}

	patch := store.ProjectPatch{
		Name:        in.Name,
		Description: in.Description,
		Status:      in.Status,
		Color:       in.Color,
		Icon:        in.Icon,
		IsPublished: in.IsPublished,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.store.UpdateProject(id, patch); err != nil {
		return nil, err
	}
	return s.store.GetProject(id)
}

// Delete removes the project and, via the storage cascade, all its
// updates. An unknown id yields removed=false, not an error.
func (s *ProjectService) Delete(_ context.Context, id string) (bool, error) {
	return s.store.DeleteProject(id)
}

func (s *ProjectService) annotate(p models.Project) (*models.ProjectWithUpdates, error) {
	updates, err := s.store.ListUpdatesByProject(p.ID)
	if err != nil {
		return nil, err
	}
	if updates == nil {
		updates = []models.Update{}
	}
	out := &models.ProjectWithUpdates{Project: p, Updates: updates}
	if len(updates) > 0 {
		out.LastUpdate = &updates[0]
	}
	return out, nil
}
