package ports

import (
	"context"
	"io"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	ListByCase(ctx context.Context, caseID string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveAnalysis(ctx context.Context, id string, analysis domain.DocumentAnalysis) error
}

// CaseRepository persists petition cases.
type CaseRepository interface {
	CreateCase(ctx context.Context, c *domain.Case) error
	GetCase(ctx context.Context, id string) (*domain.Case, error)
}

// LetterRepository persists drafted letters.
type LetterRepository interface {
	CreateLetter(ctx context.Context, letter *domain.Letter) error
	GetLetter(ctx context.Context, id string) (*domain.Letter, error)
	ListLettersByCase(ctx context.Context, caseID string) ([]domain.Letter, error)
	UpdateLetterContent(ctx context.Context, id, content string, status domain.LetterStatus) error
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor turns raw file bytes into text. Format failures are reported
// in ExtractedDocument.Error; an error return means the type is unrecognizable.
type TextExtractor interface {
	Extract(ctx context.Context, body io.Reader, declaredType, fileName string) (domain.ExtractedDocument, error)
}

// TextGenerator is the external text-generation service.
type TextGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (string, error)
}

// CredentialFieldExtractor pulls a structured record from credential text.
// A nil record with a nil error means the response was unparseable.
type CredentialFieldExtractor interface {
	ExtractFields(ctx context.Context, text string, category domain.DocumentCategory) (*domain.CredentialRecord, error)
}

// EquivalencyReasoner writes the US-equivalency narrative; it never fails.
type EquivalencyReasoner interface {
	DetermineEquivalency(ctx context.Context, text string, category domain.DocumentCategory, record *domain.CredentialRecord) string
}

// Chunker splits text into bounded pieces.
type Chunker interface {
	Split(text string) []string
}

// EvaluationFileStore tracks credential evaluations in the local collection store.
type EvaluationFileStore interface {
	SaveEvaluationFile(ctx context.Context, f *domain.EvaluationFile) error
	GetEvaluationFile(ctx context.Context, id string) (*domain.EvaluationFile, error)
	ListEvaluationFiles(ctx context.Context) ([]domain.EvaluationFile, error)
}

// TranslationFileStore tracks translations in the local collection store.
type TranslationFileStore interface {
	SaveTranslationFile(ctx context.Context, f *domain.TranslationFile) error
	GetTranslationFile(ctx context.Context, id string) (*domain.TranslationFile, error)
	ListTranslationFiles(ctx context.Context) ([]domain.TranslationFile, error)
}

// ReportExporter renders an evaluation as a spreadsheet.
type ReportExporter interface {
	ExportEvaluation(f *domain.EvaluationFile) ([]byte, error)
}
