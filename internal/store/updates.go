package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/halstein/pulse/internal/apperr"
	"github.com/halstein/pulse/internal/models"
)

const updateColumns = `id, project_id, content, content_plain, category,
	created_at, updated_at, improved_content, azure_sync_id, last_synced_at`

// InsertUpdate persists a new update and bumps the parent project's
// updated_at to the update's creation time in the same transaction. If the
// parent does not exist, nothing is written and apperr.ErrNotFound is
// returned.
func (s *Store) InsertUpdate(u models.Update) error {
	return s.withTx(func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE projects SET updated_at = ? WHERE id = ?`, u.CreatedAt, u.ProjectID)
		if err != nil {
			return fmt.Errorf("store: touch parent project: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: touch parent rows: %w", err)
		}
		if n == 0 {
			return apperr.ErrNotFound
		}
		_, err = tx.Exec(`
			INSERT INTO updates (`+updateColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, u.ID, u.ProjectID, u.Content, u.ContentPlain, u.Category,
			u.CreatedAt, u.UpdatedAt, u.ImprovedContent, u.AzureSyncID, u.LastSyncedAt)
		if err != nil {
			return fmt.Errorf("store: insert update: %w", err)
		}
		return searchUpsert(tx, u.ID, u.ProjectID, u.ContentPlain)
	})
}

// GetUpdate returns the update with the given id, or apperr.ErrNotFound.
func (s *Store) GetUpdate(id string) (*models.Update, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	row := conn.QueryRow(`SELECT `+updateColumns+` FROM updates WHERE id = ?`, id)
	u, err := scanUpdate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get update: %w", err)
	}
	return u, nil
}

// ListUpdatesByProject returns all updates for a project, newest first.
func (s *Store) ListUpdatesByProject(projectID string) ([]models.Update, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(`
		SELECT `+updateColumns+` FROM updates
		WHERE project_id = ?
		ORDER BY created_at DESC, id DESC
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("store: list updates: %w", err)
	}
	defer rows.Close()

	var out []models.Update
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan update: %w", err)
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateUpdate rewrites content and its plain mirror, refreshes updated_at,
// and optionally replaces category. Returns apperr.ErrNotFound when the id
// matches no row.
func (s *Store) UpdateUpdate(id, content, contentPlain string, category *string, updatedAt time.Time) error {
	return s.withTx(func(tx *sql.Tx) error {
		var (
			res sql.Result
			err error
		)
		if category != nil {
			res, err = tx.Exec(`
				UPDATE updates SET content = ?, content_plain = ?, category = ?, updated_at = ?
				WHERE id = ?
			`, content, contentPlain, *category, updatedAt, id)
		} else {
			res, err = tx.Exec(`
				UPDATE updates SET content = ?, content_plain = ?, updated_at = ?
				WHERE id = ?
			`, content, contentPlain, updatedAt, id)
		}
		if err != nil {
			return fmt.Errorf("store: update update: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: update update rows: %w", err)
		}
		if n == 0 {
			return apperr.ErrNotFound
		}
		var projectID string
		if err := tx.QueryRow(`SELECT project_id FROM updates WHERE id = ?`, id).Scan(&projectID); err != nil {
			return fmt.Errorf("store: update project id: %w", err)
		}
		return searchUpsert(tx, id, projectID, contentPlain)
	})
}

// DeleteUpdate removes a single update without touching the parent project.
// Returns whether a row was actually removed.
func (s *Store) DeleteUpdate(id string) (bool, error) {
	var removed bool
	err := s.withTx(func(tx *sql.Tx) error {
		searchDelete(tx, id)
		res, err := tx.Exec(`DELETE FROM updates WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("store: delete update: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("store: delete update rows: %w", err)
		}
		removed = n > 0
		return nil
	})
	return removed, err
}

func scanUpdate(r rowScanner) (*models.Update, error) {
	var u models.Update
	err := r.Scan(&u.ID, &u.ProjectID, &u.Content, &u.ContentPlain, &u.Category,
		&u.CreatedAt, &u.UpdatedAt, &u.ImprovedContent, &u.AzureSyncID, &u.LastSyncedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
