// Package models defines the domain types for Pulse.
package models

import "time"

// Project statuses.
const (
	StatusActive    = "active"
	StatusOnHold    = "on-hold"
	StatusCompleted = "completed"
	StatusArchived  = "archived"
)

// ProjectStatuses lists every valid project status.
var ProjectStatuses = []string{StatusActive, StatusOnHold, StatusCompleted, StatusArchived}

// Project is a top-level tracked entity with a status and descriptive metadata.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Color       *string   `json:"color,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Reserved for remote sync; persisted but never written by services.
	AzureSyncID  *string    `json:"-"`
	LastSyncedAt *time.Time `json:"-"`
}

// ProjectWithUpdates is a project annotated with its updates, newest first.
type ProjectWithUpdates struct {
	Project
	Updates    []Update `json:"updates"`
	LastUpdate *Update  `json:"last_update,omitempty"`
}
