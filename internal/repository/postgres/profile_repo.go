package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProfileRepository implements domain.ProfileRepository using PostgreSQL
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Create(name string) (*domain.Profile, error) {
	ctx := context.Background()
	return scanProfile(r.pool.QueryRow(ctx,
		`INSERT INTO profiles (name) VALUES ($1) RETURNING id, name, created_date`, name))
}

func (r *ProfileRepository) GetByID(id int32) (*domain.Profile, error) {
	ctx := context.Background()
	return profileNotFoundAs(scanProfile(r.pool.QueryRow(ctx,
		`SELECT id, name, created_date FROM profiles WHERE id = $1`, id)))
}

func (r *ProfileRepository) List() ([]*domain.Profile, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_date FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	profiles, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Profile, error) {
		return scanProfile(row)
	})
	if err != nil {
		return nil, err
	}
	if profiles == nil {
		profiles = []*domain.Profile{}
	}
	return profiles, nil
}

func (r *ProfileRepository) Rename(id int32, name string) (*domain.Profile, error) {
	ctx := context.Background()
	return profileNotFoundAs(scanProfile(r.pool.QueryRow(ctx,
		`UPDATE profiles SET name = $2 WHERE id = $1 RETURNING id, name, created_date`, id, name)))
}

// Delete removes a profile; bills and templates follow through ON DELETE CASCADE
func (r *ProfileRepository) Delete(id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}

func scanProfile(row pgx.Row) (*domain.Profile, error) {
	var p domain.Profile
	if err := row.Scan(&p.ID, &p.Name, &p.CreatedDate); err != nil {
		return nil, err
	}
	return &p, nil
}

func profileNotFoundAs(p *domain.Profile, err error) (*domain.Profile, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrProfileNotFound
	}
	return p, err
}
