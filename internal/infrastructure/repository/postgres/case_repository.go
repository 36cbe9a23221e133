package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

type CaseRepository struct {
	db *sql.DB
}

func NewCaseRepository(db *sql.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) CreateCase(ctx context.Context, c *domain.Case) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO cases (id, applicant_name, visa_type, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
`, c.ID, c.ApplicantName, c.VisaType, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert case: %w", err)
	}
	return nil
}

func (r *CaseRepository) GetCase(ctx context.Context, id string) (*domain.Case, error) {
	var c domain.Case
	err := r.db.QueryRowContext(ctx, `
SELECT id, applicant_name, visa_type, created_at, updated_at
FROM cases
WHERE id = $1
`, id).Scan(&c.ID, &c.ApplicantName, &c.VisaType, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get case: %w: id=%s", domain.ErrCaseNotFound, id)
		}
		return nil, fmt.Errorf("scan case: %w", err)
	}
	return &c, nil
}
