package httpadapter

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

type ingestFake struct {
	err    error
	upload ports.Upload
	body   string
}

func (f *ingestFake) Upload(_ context.Context, upload ports.Upload) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "upload", io.EOF)
	}
	f.upload = upload
	f.body = string(raw)

	now := time.Now().UTC()
	return &domain.Document{
		ID:          "doc-1",
		CaseID:      upload.CaseID,
		Filename:    upload.FileName,
		MimeType:    upload.MimeType,
		StoragePath: "doc-1_file.txt",
		Status:      domain.StatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type docsFake struct {
	err error
}

func (f docsFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Document{ID: id, Filename: "a", MimeType: "text/plain", StoragePath: "a", Status: domain.StatusReady}, nil
}

type processorFake struct {
	processed []string
	err       error
}

func (f *processorFake) ProcessByID(_ context.Context, id string) error {
	f.processed = append(f.processed, id)
	return f.err
}

func (f *processorFake) ReprocessCase(_ context.Context, caseID string) (domain.ReprocessSummary, error) {
	return domain.ReprocessSummary{CaseID: caseID, Processed: 2}, f.err
}

type casesFake struct {
	created *domain.Case
	err     error
}

func (f *casesFake) CreateCase(_ context.Context, applicantName, visaType string) (*domain.Case, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &domain.Case{ID: "case-1", ApplicantName: applicantName, VisaType: visaType}
	return f.created, nil
}

func (f *casesFake) GetCase(_ context.Context, id string) (*domain.Case, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Case{ID: id}, nil
}

func (f *casesFake) ListDocuments(_ context.Context, caseID string) ([]domain.Document, error) {
	return []domain.Document{{ID: "doc-1", CaseID: caseID}}, f.err
}

func (f *casesFake) ListLetters(_ context.Context, caseID string) ([]domain.Letter, error) {
	return []domain.Letter{{ID: "letter-1", CaseID: caseID, Kind: domain.LetterExpert}}, f.err
}

type evaluatorFake struct {
	err    error
	export []byte
}

func (f *evaluatorFake) Evaluate(_ context.Context, upload ports.Upload) (*domain.EvaluationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EvaluationFile{ID: "eval-1", FileName: upload.FileName, Status: domain.FileEvaluated}, nil
}

func (f *evaluatorFake) GetEvaluation(_ context.Context, id string) (*domain.EvaluationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EvaluationFile{ID: id, Status: domain.FileEvaluated}, nil
}

func (f *evaluatorFake) ListEvaluations(context.Context) ([]domain.EvaluationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []domain.EvaluationFile{{ID: "eval-1", Status: domain.FileEvaluated}}, nil
}

func (f *evaluatorFake) UpdateEquivalency(_ context.Context, id, _ string) (*domain.EvaluationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EvaluationFile{ID: id, Status: domain.FileEdited}, nil
}

func (f *evaluatorFake) CompleteEvaluation(_ context.Context, id string) (*domain.EvaluationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.EvaluationFile{ID: id, Status: domain.FileCompleted}, nil
}

func (f *evaluatorFake) ExportEvaluation(context.Context, string) ([]byte, error) {
	return f.export, f.err
}

type verifierFake struct {
	verdict domain.VerificationVerdict
	err     error
}

func (f verifierFake) Verify(context.Context, ports.Upload) (domain.VerificationVerdict, error) {
	return f.verdict, f.err
}

type translatorFake struct {
	target string
	err    error
}

func (f *translatorFake) Translate(_ context.Context, upload ports.Upload, target string) (*domain.TranslationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.target = target
	return &domain.TranslationFile{ID: "tr-1", FileName: upload.FileName, TargetLanguage: target, Status: domain.FileTranslated}, nil
}

func (f *translatorFake) GetTranslation(_ context.Context, id string) (*domain.TranslationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TranslationFile{ID: id, Status: domain.FileTranslated}, nil
}

func (f *translatorFake) ListTranslations(context.Context) ([]domain.TranslationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *translatorFake) UpdateTranslation(_ context.Context, id, text string) (*domain.TranslationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TranslationFile{ID: id, Translation: text, Status: domain.FileEdited}, nil
}

func (f *translatorFake) CompleteTranslation(_ context.Context, id string) (*domain.TranslationFile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.TranslationFile{ID: id, Status: domain.FileCompleted}, nil
}

type lettersFake struct {
	err          error
	caseID       string
	expert       domain.ExpertLetterEvidence
	instructions string
	samplesVisa  string
	samplesTags  []string
}

func (f *lettersFake) DraftExpertLetter(_ context.Context, caseID string, evidence domain.ExpertLetterEvidence) (*domain.Letter, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.caseID = caseID
	f.expert = evidence
	return &domain.Letter{ID: "letter-1", CaseID: caseID, Kind: domain.LetterExpert, VisaType: evidence.VisaType, Status: domain.LetterDraft}, nil
}

func (f *lettersFake) DraftPetitionLetter(_ context.Context, caseID string, evidence domain.PetitionLetterEvidence) (*domain.Letter, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.caseID = caseID
	return &domain.Letter{ID: "letter-2", CaseID: caseID, Kind: domain.LetterPetition, VisaType: evidence.VisaType, Status: domain.LetterDraft}, nil
}

func (f *lettersFake) RefineLetter(_ context.Context, letterID, instructions string) (*domain.Letter, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.instructions = instructions
	return &domain.Letter{ID: letterID, Kind: domain.LetterExpert, Status: domain.LetterRefined}, nil
}

func (f *lettersFake) GetLetter(_ context.Context, id string) (*domain.Letter, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Letter{ID: id, Kind: domain.LetterExpert}, nil
}

func (f *lettersFake) Samples(visaType string, tags []string) []domain.SampleLetter {
	f.samplesVisa = visaType
	f.samplesTags = tags
	return []domain.SampleLetter{{ID: "eb1a-1", VisaType: visaType, Tags: tags}}
}

type telemetrySpy struct {
	rejected      []string
	verifications []string
	letters       []string
}

func (s *telemetrySpy) RecordRejected(reason string) { s.rejected = append(s.rejected, reason) }

func (s *telemetrySpy) RecordVerification(verdict string, _ int, _ bool) {
	s.verifications = append(s.verifications, verdict)
}

func (s *telemetrySpy) RecordLetter(kind, action string) {
	s.letters = append(s.letters, kind+":"+action)
}

func (s *telemetrySpy) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
}

func (s *telemetrySpy) Middleware(_ string, next http.Handler) http.Handler { return next }
