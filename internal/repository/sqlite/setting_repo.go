package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
)

// SettingRepository implements domain.SettingRepository using SQLite
type SettingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(db *sql.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

func (r *SettingRepository) Get(key string) (*domain.Setting, error) {
	var (
		s       domain.Setting
		updated string
	)
	err := r.db.QueryRow(`SELECT key, value, updated_at FROM settings WHERE key = ?`, key).Scan(&s.Key, &s.Value, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	if s.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return nil, fmt.Errorf("setting %q has invalid updated_at: %w", key, err)
	}
	return &s, nil
}

// Save inserts or replaces a setting
func (r *SettingRepository) Save(key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, formatTimestamp(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes every setting whose key starts with prefix.
// substr avoids LIKE treating "_" in the prefix as a wildcard.
func (r *SettingRepository) DeleteByPrefix(prefix string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE substr(key, 1, ?) = ?`, len(prefix), prefix)
	if err != nil {
		return fmt.Errorf("failed to delete settings with prefix %q: %w", prefix, err)
	}
	return nil
}
