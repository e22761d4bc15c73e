package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/halstein/pulse/internal/apperr"
	"github.com/halstein/pulse/internal/models"
)

const projectColumns = `id, name, description, status, color, icon, is_published,
	created_at, updated_at, azure_sync_id, last_synced_at`

// ProjectPatch describes a partial project mutation. Nil fields are left
// untouched; UpdatedAt is always written.
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *string
	Color       *string
	Icon        *string
	IsPublished *bool
	UpdatedAt   time.Time
}

// InsertProject persists a fully populated project row.
func (s *Store) InsertProject(p models.Project) error {
	conn, err := s.db()
	if err != nil {
		return err
	}
	_, err = conn.Exec(`
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Status, p.Color, p.Icon, p.IsPublished,
		p.CreatedAt, p.UpdatedAt, p.AzureSyncID, p.LastSyncedAt)
	if err != nil {
		return fmt.Errorf("store: insert project: %w", err)
	}
	return nil
}

// GetProject returns the project with the given id, or apperr.ErrNotFound.
func (s *Store) GetProject(id string) (*models.Project, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	row := conn.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get project: %w", err)
	}
	return p, nil
}

// ListProjects returns every project, most recently updated first. The id
// acts as a tiebreaker so equal timestamps still order deterministically.
func (s *Store) ListProjects() ([]models.Project, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(`SELECT ` + projectColumns + ` FROM projects ORDER BY updated_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	var out []models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan project: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateProject applies a partial mutation. Returns apperr.ErrNotFound when
// the id matches no row.
func (s *Store) UpdateProject(id string, patch ProjectPatch) error {
	conn, err := s.db()
	if err != nil {
		return err
	}

	set := []string{"updated_at = ?"}
	args := []any{patch.UpdatedAt}
	if patch.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		set = append(set, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Status != nil {
		set = append(set, "status = ?")
		args = append(args, *patch.Status)
	}
	if patch.Color != nil {
		set = append(set, "color = ?")
		args = append(args, *patch.Color)
	}
	if patch.Icon != nil {
		set = append(set, "icon = ?")
		args = append(args, *patch.Icon)
	}
	if patch.IsPublished != nil {
		set = append(set, "is_published = ?")
		args = append(args, *patch.IsPublished)
	}
	args = append(args, id)

	res, err := conn.Exec(`UPDATE projects SET `+strings.Join(set, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("store: update project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update project rows: %w", err)
	}
	if n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project; its updates go with it via the cascade
// FK. Returns whether a row was actually removed.
func (s *Store) DeleteProject(id string) (bool, error) {
	var removed bool
	err := s.withTx(func(tx *sql.Tx) error {
		searchDeleteByProject(tx, id)
		res, err := tx.Exec(`DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("store: delete project: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: delete project rows: %w", err)
		}
		removed = n > 0
		return nil
	})
	return removed, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (*models.Project, error) {
	var p models.Project
	err := r.Scan(&p.ID, &p.Name, &p.Description, &p.Status, &p.Color, &p.Icon,
		&p.IsPublished, &p.CreatedAt, &p.UpdatedAt, &p.AzureSyncID, &p.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
