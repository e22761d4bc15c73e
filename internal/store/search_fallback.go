//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
)

func initSearch(_ *sql.DB) error {
	// FTS5 not compiled in; search uses a LIKE fallback on content_plain.
	return nil
}

func searchUpsert(_ *sql.Tx, _, _, _ string) error {
	// content_plain already lives in the updates table; nothing extra to do.
	return nil
}

func searchDelete(_ *sql.Tx, _ string) {}

func searchDeleteByProject(_ *sql.Tx, _ string) {}

// SearchUpdates performs a LIKE-based search over update plain text
// (fallback when FTS5 is not compiled in).
func (s *Store) SearchUpdates(query string, limit int) ([]SearchHit, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := conn.Query(`
		SELECT id, project_id, substr(content_plain, 1, 200)
		FROM updates
		WHERE content_plain LIKE ?
		ORDER BY created_at DESC
		LIMIT ?
	`, like, limit)
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
