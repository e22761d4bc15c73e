//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initSearch(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS updates_fts USING fts5(
			update_id UNINDEXED,
			project_id UNINDEXED,
			content_plain,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func searchUpsert(tx *sql.Tx, updateID, projectID, contentPlain string) error {
	_, _ = tx.Exec(`DELETE FROM updates_fts WHERE update_id = ?`, updateID)
	_, err := tx.Exec(`INSERT INTO updates_fts (update_id, project_id, content_plain) VALUES (?, ?, ?)`,
		updateID, projectID, contentPlain)
	if err != nil {
		return fmt.Errorf("store: upsert fts: %w", err)
	}
	return nil
}

func searchDelete(tx *sql.Tx, updateID string) {
	_, _ = tx.Exec(`DELETE FROM updates_fts WHERE update_id = ?`, updateID)
}

func searchDeleteByProject(tx *sql.Tx, projectID string) {
	_, _ = tx.Exec(`DELETE FROM updates_fts WHERE project_id = ?`, projectID)
}

// SearchUpdates performs an FTS5 full-text search over update plain text.
func (s *Store) SearchUpdates(query string, limit int) ([]SearchHit, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	rows, err := conn.Query(`
		SELECT update_id,
		       project_id,
		       snippet(updates_fts, 2, '<b>', '</b>', '...', 64)
		FROM updates_fts
		WHERE updates_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()

	var out []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.UpdateID, &h.ProjectID, &h.Snippet); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}
