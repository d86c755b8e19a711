package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dafibh/billkeeper/billkeeper-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TemplateRepository implements domain.TemplateRepository using PostgreSQL.
// Bill snapshots live in a JSONB column encoded by pgx.
type TemplateRepository struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepository {
	return &TemplateRepository{pool: pool}
}

func (r *TemplateRepository) Create(template *domain.Template) (*domain.Template, error) {
	ctx := context.Background()
	bills := template.Bills
	if bills == nil {
		bills = []domain.TemplateBill{}
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO templates (profile_id, name, bills) VALUES ($1, $2, $3)
		RETURNING id, profile_id, name, bills, created_date`,
		template.ProfileID, template.Name, bills,
	)
	return scanTemplate(row)
}

func (r *TemplateRepository) GetByID(profileID int32, id int32) (*domain.Template, error) {
	ctx := context.Background()
	t, err := scanTemplate(r.pool.QueryRow(ctx,
		`SELECT id, profile_id, name, bills, created_date FROM templates WHERE profile_id = $1 AND id = $2`,
		profileID, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *TemplateRepository) ListByProfile(profileID int32) ([]*domain.Template, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT id, profile_id, name, bills, created_date FROM templates WHERE profile_id = $1 ORDER BY created_date DESC, id DESC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	templates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.Template, error) {
		return scanTemplate(row)
	})
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []*domain.Template{}
	}
	return templates, nil
}

func (r *TemplateRepository) Delete(profileID int32, id int32) error {
	ctx := context.Background()
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE profile_id = $1 AND id = $2`, profileID, id)
	if err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r *TemplateRepository) CountByProfile(profileID int32) (int, error) {
	return countByProfile(r.pool, "templates", profileID)
}

func (r *TemplateRepository) DeleteByProfile(profileID int32) error {
	ctx := context.Background()
	if _, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE profile_id = $1`, profileID); err != nil {
		return fmt.Errorf("failed to delete profile templates: %w", err)
	}
	return nil
}

func scanTemplate(row pgx.Row) (*domain.Template, error) {
	var t domain.Template
	if err := row.Scan(&t.ID, &t.ProfileID, &t.Name, &t.Bills, &t.CreatedDate); err != nil {
		return nil, err
	}
	return &t, nil
}
