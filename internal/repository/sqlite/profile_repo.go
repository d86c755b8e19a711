package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository using SQLite
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(name string) (*domain.Profile, error) {
	res, err := r.db.Exec(`INSERT INTO profiles (name, created_date) VALUES (?, ?)`, name, formatTimestamp(time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read profile id: %w", err)
	}
	return r.GetByID(int32(id))
}

func (r *ProfileRepository) GetByID(id int32) (*domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRow(`SELECT id, name, created_date FROM profiles WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns profiles in creation order
func (r *ProfileRepository) List() ([]*domain.Profile, error) {
	rows, err := r.db.Query(`SELECT id, name, created_date FROM profiles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func (r *ProfileRepository) Rename(id int32, name string) (*domain.Profile, error) {
	res, err := r.db.Exec(`UPDATE profiles SET name = ? WHERE id = ?`, name, id)
	if err != nil {
		return nil, fmt.Errorf("failed to rename profile: %w", err)
	}
	if err := requireAffected(res, domain.ErrProfileNotFound); err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a profile; bills and templates follow through ON DELETE CASCADE
func (r *ProfileRepository) Delete(id int32) error {
	res, err := r.db.Exec(`DELETE FROM profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	return requireAffected(res, domain.ErrProfileNotFound)
}

func scanProfile(s scanner) (*domain.Profile, error) {
	var (
		p       domain.Profile
		created string
	)
	if err := s.Scan(&p.ID, &p.Name, &created); err != nil {
		return nil, err
	}
	t, err := parseTimestamp(created)
	if err != nil {
		return nil, fmt.Errorf("profile %d has invalid created_date: %w", p.ID, err)
	}
	p.CreatedDate = t
	return &p, nil
}
