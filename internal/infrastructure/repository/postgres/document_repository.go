package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

const documentColumns = `id, case_id, filename, mime_type, storage_path, source_type, category, tags, summary, extracted_text, metadata, status, error_message, created_at, updated_at`

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	tagsJSON, metadataJSON, err := marshalDocumentJSON(doc.Tags, doc.Metadata)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (`+documentColumns+`)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
`,
		doc.ID, nullableString(doc.CaseID), doc.Filename, doc.MimeType, doc.StoragePath,
		nullableString(string(doc.SourceType)), nullableString(string(doc.Category)), tagsJSON,
		nullableString(doc.Summary), nullableString(doc.Text), metadataJSON,
		string(doc.Status), nullableString(doc.Error), doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("get document: %w: id=%s", domain.ErrDocumentNotFound, id)
		}
		return nil, fmt.Errorf("scan document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) ListByCase(ctx context.Context, caseID string) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+documentColumns+`
FROM documents
WHERE case_id = $1
ORDER BY created_at ASC, id ASC
`, caseID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return out, nil
}

func (r *DocumentRepository) UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(status), nullableString(errMessage), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update document status: %w", err)
	}
	return expectOneRow(result, domain.ErrDocumentNotFound, "update document status", id)
}

func (r *DocumentRepository) SaveAnalysis(ctx context.Context, id string, analysis domain.DocumentAnalysis) error {
	tagsJSON, metadataJSON, err := marshalDocumentJSON(analysis.Tags, analysis.Metadata)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE documents
SET source_type = $2, category = $3, tags = $4, summary = $5, extracted_text = $6, metadata = $7, updated_at = $8
WHERE id = $1
`, id, nullableString(string(analysis.SourceType)), nullableString(string(analysis.Category)), tagsJSON,
		nullableString(analysis.Summary), nullableString(analysis.Text), metadataJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return expectOneRow(result, domain.ErrDocumentNotFound, "save analysis", id)
}

func marshalDocumentJSON(tags []string, metadata map[string]any) ([]byte, []byte, error) {
	if tags == nil {
		tags = []string{}
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal tags: %w", err)
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return tagsJSON, metadataJSON, nil
}

func scanDocument(row rowScanner) (domain.Document, error) {
	var (
		doc         domain.Document
		caseID      sql.NullString
		sourceType  sql.NullString
		category    sql.NullString
		summary     sql.NullString
		text        sql.NullString
		errMessage  sql.NullString
		tagsRaw     []byte
		metadataRaw []byte
		status      string
	)
	err := row.Scan(
		&doc.ID,
		&caseID,
		&doc.Filename,
		&doc.MimeType,
		&doc.StoragePath,
		&sourceType,
		&category,
		&tagsRaw,
		&summary,
		&text,
		&metadataRaw,
		&status,
		&errMessage,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return domain.Document{}, err
	}

	doc.CaseID = caseID.String
	doc.SourceType = domain.SourceType(sourceType.String)
	doc.Category = domain.DocumentCategory(category.String)
	doc.Summary = summary.String
	doc.Text = text.String
	doc.Error = errMessage.String
	doc.Status = domain.DocumentStatus(status)

	if len(tagsRaw) > 0 {
		if err := json.Unmarshal(tagsRaw, &doc.Tags); err != nil {
			return domain.Document{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if len(metadataRaw) > 0 {
		if err := json.Unmarshal(metadataRaw, &doc.Metadata); err != nil {
			return domain.Document{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return doc, nil
}
