package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

const letterColumns = `id, case_id, kind, visa_type, sample_id, content, status, created_at, updated_at`

type LetterRepository struct {
	db *sql.DB
}

func NewLetterRepository(db *sql.DB) *LetterRepository {
	return &LetterRepository{db: db}
}

func (r *LetterRepository) CreateLetter(ctx context.Context, l *domain.Letter) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO letters (`+letterColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, l.ID, nullableString(l.CaseID), string(l.Kind), nullableString(l.VisaType), nullableString(l.SampleID),
		l.Content, string(l.Status), l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert letter: %w", err)
	}
	return nil
}

func (r *LetterRepository) GetLetter(ctx context.Context, id string) (*domain.Letter, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+letterColumns+`
FROM letters
WHERE id = $1
`, id)
	l, err := scanLetter(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get letter: %w: id=%s", domain.ErrLetterNotFound, id)
		}
		return nil, fmt.Errorf("scan letter: %w", err)
	}
	return &l, nil
}

func (r *LetterRepository) ListLettersByCase(ctx context.Context, caseID string) ([]domain.Letter, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+letterColumns+`
FROM letters
WHERE case_id = $1
ORDER BY created_at ASC, id ASC
`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list letters: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Letter, 0)
	for rows.Next() {
		l, err := scanLetter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan letter: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate letters: %w", err)
	}
	return out, nil
}

func (r *LetterRepository) UpdateLetterContent(ctx context.Context, id, content string, status domain.LetterStatus) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE letters
SET content = $2, status = $3, updated_at = $4
WHERE id = $1
`, id, content, string(status), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update letter: %w", err)
	}
	return expectOneRow(result, domain.ErrLetterNotFound, "update letter", id)
}

func scanLetter(row rowScanner) (domain.Letter, error) {
	var (
		l                          domain.Letter
		caseID, visaType, sampleID sql.NullString
		kind, status               string
	)
	if err := row.Scan(&l.ID, &caseID, &kind, &visaType, &sampleID, &l.Content, &status, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return domain.Letter{}, err
	}
	l.CaseID = caseID.String
	l.VisaType = visaType.String
	l.SampleID = sampleID.String
	l.Kind = domain.LetterKind(kind)
	l.Status = domain.LetterStatus(status)
	return l, nil
}
