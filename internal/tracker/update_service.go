package tracker

import (
	"context"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/halstein/pulse/internal/apperr"
	"github.com/halstein/pulse/internal/markdown"
	"github.com/halstein/pulse/internal/models"
	"github.com/halstein/pulse/internal/store"
)

// CreateUpdateInput is the payload for UpdateService.Create.
type CreateUpdateInput struct {
	ProjectID string  `json:"project_id"`
	Content   string  `json:"content"`
	Category  *string `json:"category,omitempty"`
}

// Validate checks required fields and the category enum before any write.
func (in CreateUpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.ProjectID, validation.Required),
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Category, validation.In(categoryValues()...)),
	)
}

// EditUpdateInput is the payload for UpdateService.Update. Category is left
// unchanged when nil.
type EditUpdateInput struct {
	Content  string  `json:"content"`
	Category *string `json:"category,omitempty"`
}

// Validate checks the replacement content and optional category.
func (in EditUpdateInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Content, validation.Required),
		validation.Field(&in.Category, validation.In(categoryValues()...)),
	)
}

func categoryValues() []any {
	out := make([]any, len(models.UpdateCategories))
	for i, c := range models.UpdateCategories {
		out[i] = c
	}
	return out
}

// UpdateService implements validated CRUD over project updates.
type UpdateService struct {
	store *store.Store
}

// NewUpdateService creates a new update service.
func NewUpdateService(s *store.Store) *UpdateService {
	return &UpdateService{store: s}
}

// ListByProject returns all updates for a project, newest first.
func (s *UpdateService) ListByProject(_ context.Context, projectID string) ([]models.Update, error) {
	updates, err := s.store.ListUpdatesByProject(projectID)
	if err != nil {
		return nil, err
	}
	if updates == nil {
		updates = []models.Update{}
	}
	return updates, nil
}

// Create persists a new update with a derived plain-text mirror and bumps
// the parent project's updated_at to the same instant. Both writes happen
// in one transaction: if the parent cannot be touched, nothing is written.
func (s *UpdateService) Create(_ context.Context, in CreateUpdateInput) (*models.Update, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err)
	}

	now := time.Now().UTC()
	u := models.Update{
		ID:           uuid.NewString(),
		ProjectID:    in.ProjectID,
		Content:      in.Content,
		ContentPlain: markdown.Strip(in.Content),
		Category:     in.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.InsertUpdate(u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update recomputes the plain mirror from the new content and refreshes
// updated_at. Returns the refreshed record or apperr.ErrNotFound.
func (s *UpdateService) Update(_ context.Context, id string, in EditUpdateInput) (*models.Update, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrValidation, err)
	}

	now := time.Now().UTC()
	if err := s.store.UpdateUpdate(id, in.Content, markdown.Strip(in.Content), in.Category, now); err != nil {
		return nil, err
	}
	return s.store.GetUpdate(id)
}

// Delete removes a single update without touching the parent project's
// updated_at. An unknown id yields removed=false, not an error.
func (s *UpdateService) Delete(_ context.Context, id string) (bool, error) {
	return s.store.DeleteUpdate(id)
}

// Search returns updates whose plain-text mirror matches the query.
func (s *UpdateService) Search(_ context.Context, query string, limit int) ([]store.SearchHit, error) {
	return s.store.SearchUpdates(query, limit)
}
