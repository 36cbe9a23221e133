package ports

import (
	"context"
	"io"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

// Upload is an incoming file.
type Upload struct {
	CaseID   string
	FileName string
	MimeType string
	Body     io.Reader
}

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, upload Upload) (*domain.Document, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
}

// DocumentProcessor is the inbound contract for document processing.
type DocumentProcessor interface {
	ProcessByID(ctx context.Context, documentID string) error
	ReprocessCase(ctx context.Context, caseID string) (domain.ReprocessSummary, error)
}

// CaseService manages petition cases.
type CaseService interface {
	CreateCase(ctx context.Context, applicantName, visaType string) (*domain.Case, error)
	GetCase(ctx context.Context, id string) (*domain.Case, error)
	ListDocuments(ctx context.Context, caseID string) ([]domain.Document, error)
	ListLetters(ctx context.Context, caseID string) ([]domain.Letter, error)
}

// CredentialEvaluator runs the credential equivalency workflow.
type CredentialEvaluator interface {
	Evaluate(ctx context.Context, upload Upload) (*domain.EvaluationFile, error)
	GetEvaluation(ctx context.Context, id string) (*domain.EvaluationFile, error)
	ListEvaluations(ctx context.Context) ([]domain.EvaluationFile, error)
	UpdateEquivalency(ctx context.Context, id, text string) (*domain.EvaluationFile, error)
	CompleteEvaluation(ctx context.Context, id string) (*domain.EvaluationFile, error)
	ExportEvaluation(ctx context.Context, id string) ([]byte, error)
}

// DocumentVerifier runs the authenticity assessment.
type DocumentVerifier interface {
	Verify(ctx context.Context, upload Upload) (domain.VerificationVerdict, error)
}

// DocumentTranslator runs the translation workflow.
type DocumentTranslator interface {
	Translate(ctx context.Context, upload Upload, targetLanguage string) (*domain.TranslationFile, error)
	GetTranslation(ctx context.Context, id string) (*domain.TranslationFile, error)
	ListTranslations(ctx context.Context) ([]domain.TranslationFile, error)
	UpdateTranslation(ctx context.Context, id, text string) (*domain.TranslationFile, error)
	CompleteTranslation(ctx context.Context, id string) (*domain.TranslationFile, error)
}

// LetterDrafter drafts and refines letters.
type LetterDrafter interface {
	DraftExpertLetter(ctx context.Context, caseID string, evidence domain.ExpertLetterEvidence) (*domain.Letter, error)
	DraftPetitionLetter(ctx context.Context, caseID string, evidence domain.PetitionLetterEvidence) (*domain.Letter, error)
	RefineLetter(ctx context.Context, letterID, instructions string) (*domain.Letter, error)
	GetLetter(ctx context.Context, id string) (*domain.Letter, error)
	Samples(visaType string, tags []string) []domain.SampleLetter
}
