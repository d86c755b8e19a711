package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SettingRepository implements domain.SettingRepository using PostgreSQL
type SettingRepository struct {
	pool *pgxpool.Pool
}

// NewSettingRepository creates a new SettingRepository
func NewSettingRepository(pool *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{pool: pool}
}

func (r *SettingRepository) Get(key string) (*domain.Setting, error) {
	ctx := context.Background()
	var s domain.Setting
	err := r.pool.QueryRow(ctx, `SELECT key, value, updated_at FROM settings WHERE key = $1`, key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettingNotFound
		}
		return nil, fmt.Errorf("failed to read setting %q: %w", key, err)
	}
	return &s, nil
}

func (r *SettingRepository) Save(key, value string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}

// DeleteByPrefix removes settings whose key starts with prefix. LEFT keeps "_" literal.
func (r *SettingRepository) DeleteByPrefix(prefix string) error {
	ctx := context.Background()
	_, err := r.pool.Exec(ctx, `DELETE FROM settings WHERE LEFT(key, $1) = $2`, int32(len(prefix)), prefix)
	if err != nil {
		return fmt.Errorf("failed to delete settings with prefix %q: %w", prefix, err)
	}
	return nil
}
