package models

import "time"

// Update categories.
const (
	CategoryGeneral    = "general"
	CategoryIP         = "ip"
	CategoryMarketing  = "marketing"
	CategoryEvaluation = "evaluation"
)

// UpdateCategories lists every valid update category.
var UpdateCategories = []string{CategoryGeneral, CategoryIP, CategoryMarketing, CategoryEvaluation}

// Update is a timestamped markdown note attached to exactly one project.
// ContentPlain is the markdown-stripped mirror of Content, recomputed on
// every create/edit and never independently settable.
type Update struct {
	ID           string    `json:"id"`
	ProjectID    string    `json:"project_id"`
	Content      string    `json:"content"`
	ContentPlain string    `json:"content_plain"`
	Category     *string   `json:"category,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Reserved columns; persisted but never written by services.
	ImprovedContent *string    `json:"-"`
	AzureSyncID     *string    `json:"-"`
	LastSyncedAt    *time.Time `json:"-"`
}
