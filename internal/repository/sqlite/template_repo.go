package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
)

// TemplateRepository implements domain.TemplateRepository using SQLite.
// The bill snapshot is stored as a JSON array.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(template *domain.Template) (*domain.Template, error) {
	bills, err := json.Marshal(templateBills(template.Bills))
	if err != nil {
		return nil, fmt.Errorf("failed to encode template bills: %w", err)
	}

	res, err := r.db.Exec(
		`INSERT INTO templates (profile_id, name, bills, created_date) VALUES (?, ?, ?, ?)`,
		template.ProfileID, template.Name, string(bills), formatTimestamp(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert template: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read template id: %w", err)
	}
	return r.GetByID(template.ProfileID, int32(id))
}

func (r *TemplateRepository) GetByID(profileID int32, id int32) (*domain.Template, error) {
	row := r.db.QueryRow(
		`SELECT id, profile_id, name, bills, created_date FROM templates WHERE profile_id = ? AND id = ?`,
		profileID, id,
	)
	t, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

// ListByProfile returns a profile's templates, newest first
func (r *TemplateRepository) ListByProfile(profileID int32) ([]*domain.Template, error) {
	rows, err := r.db.Query(
		`SELECT id, profile_id, name, bills, created_date FROM templates WHERE profile_id = ? ORDER BY created_date DESC, id DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	templates := []*domain.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

func (r *TemplateRepository) Delete(profileID int32, id int32) error {
	res, err := r.db.Exec(`DELETE FROM templates WHERE profile_id = ? AND id = ?`, profileID, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return requireAffected(res, domain.ErrTemplateNotFound)
}

func (r *TemplateRepository) CountByProfile(profileID int32) (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM templates WHERE profile_id = ?`, profileID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count templates: %w", err)
	}
	return count, nil
}

func (r *TemplateRepository) DeleteByProfile(profileID int32) error {
	if _, err := r.db.Exec(`DELETE FROM templates WHERE profile_id = ?`, profileID); err != nil {
		return fmt.Errorf("failed to delete profile templates: %w", err)
	}
	return nil
}

func scanTemplate(s scanner) (*domain.Template, error) {
	var (
		t           domain.Template
		bills       string
		createdDate string
	)
	if err := s.Scan(&t.ID, &t.ProfileID, &t.Name, &bills, &createdDate); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(bills), &t.Bills); err != nil {
		return nil, fmt.Errorf("template %d has invalid bills: %w", t.ID, err)
	}
	created, err := parseTimestamp(createdDate)
	if err != nil {
		return nil, fmt.Errorf("template %d has invalid created_date: %w", t.ID, err)
	}
	t.CreatedDate = created
	return &t, nil
}

// templateBills never encodes a nil slice as JSON null
func templateBills(bills []domain.TemplateBill) []domain.TemplateBill {
	if bills == nil {
		return []domain.TemplateBill{}
	}
	return bills
}
