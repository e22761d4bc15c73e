package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/halstein/pulse/internal/apperr"
	"github.com/halstein/pulse/internal/models"
)

// SchemaVersionKey is the settings key holding the applied schema version.
const SchemaVersionKey = "schema_version"

// SetSetting inserts or replaces a key→value pair.
func (s *Store) SetSetting(key, value string, now time.Time) error {
	conn, err := s.db()
	if err != nil {
		return err
	}
	_, err = conn.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at
	`, key, value, now)
	if err != nil {
		return fmt.Errorf("store: set setting: %w", err)
	}
	return nil
}

// GetSetting returns the value for key, or apperr.ErrNotFound.
func (s *Store) GetSetting(key string) (string, error) {
	conn, err := s.db()
	if err != nil {
		return "", err
	}
	var value string
	err = conn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", apperr.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: get setting: %w", err)
	}
	return value, nil
}

// ListSettings returns every setting ordered by key.
func (s *Store) ListSettings() ([]models.Setting, error) {
	conn, err := s.db()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(`SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("store: list settings: %w", err)
	}
	defer rows.Close()

	var out []models.Setting
	for rows.Next() {
		var st models.Setting
		if err := rows.Scan(&st.Key, &st.Value, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("store: scan setting: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
