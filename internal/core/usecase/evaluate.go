package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/petition-assistant/internal/core/classify"
	"github.com/kirillkom/petition-assistant/internal/core/credential"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

type EvaluateCredentialUseCase struct {
	files       ports.EvaluationFileStore
	storage     ports.ObjectStorage
	extractor   ports.TextExtractor
	fields      ports.CredentialFieldExtractor
	equivalency ports.EquivalencyReasoner
	exporter    ports.ReportExporter
	cases       ports.CaseRepository
	letters     ports.LetterRepository
	logger      *slog.Logger
}

type EvaluateDeps struct {
	Files       ports.EvaluationFileStore
	Storage     ports.ObjectStorage
	Extractor   ports.TextExtractor
	Fields      ports.CredentialFieldExtractor
	Equivalency ports.EquivalencyReasoner
	Exporter    ports.ReportExporter
	Cases       ports.CaseRepository
	Letters     ports.LetterRepository
	Logger      *slog.Logger
}

func NewEvaluateCredentialUseCase(deps EvaluateDeps) *EvaluateCredentialUseCase {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EvaluateCredentialUseCase{
		files:       deps.Files,
		storage:     deps.Storage,
		extractor:   deps.Extractor,
		fields:      deps.Fields,
		equivalency: deps.Equivalency,
		exporter:    deps.Exporter,
		cases:       deps.Cases,
		letters:     deps.Letters,
		logger:      logger,
	}
}

// Evaluate runs upload → extract → classify → fields → equivalency → GPA and
// tracks each stage on the evaluation file. Unparseable or failed field
// extraction degrades to a regex course parse for transcripts.
func (uc *EvaluateCredentialUseCase) Evaluate(ctx context.Context, upload ports.Upload) (*domain.EvaluationFile, error) {
	data, err := bufferUpload(upload)
	if err != nil {
		return nil, err
	}
	if upload.CaseID != "" {
		if _, err := uc.cases.GetCase(ctx, upload.CaseID); err != nil {
			return nil, fmt.Errorf("load case: %w", err)
		}
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	file := &domain.EvaluationFile{
		ID:          id,
		CaseID:      upload.CaseID,
		FileName:    upload.FileName,
		MimeType:    upload.MimeType,
		StoragePath: storageKeyFor(id, upload.FileName),
		Status:      domain.FileUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := storeBytes(ctx, uc.storage, file.StoragePath, data); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}

	extracted, err := extractText(ctx, uc.extractor, bytes.NewReader(data), upload.MimeType, upload.FileName)
	if err != nil {
		file.Error = err.Error()
		if saveErr := uc.save(ctx, file); saveErr != nil {
			return nil, fmt.Errorf("%w; %v", err, saveErr)
		}
		return file, err
	}
	file.Text = extracted.Text
	if err := file.Advance(domain.FileProcessed, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}

	file.Evaluation = uc.evaluateText(ctx, file.ID, extracted.Text, upload.FileName)
	if err := file.Advance(domain.FileEvaluated, time.Now().UTC()); err != nil {
		return nil, err
	}

	if file.CaseID != "" {
		letter, err := uc.recordLetter(ctx, file)
		if err != nil {
			return nil, err
		}
		file.LetterID = letter.ID
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *EvaluateCredentialUseCase) evaluateText(ctx context.Context, fileID, text, fileName string) *domain.CredentialEvaluation {
	category := classify.ClassifyWithHint(text, fileName)
	eval := &domain.CredentialEvaluation{Category: category}

	record, err := uc.fields.ExtractFields(ctx, text, category)
	if err != nil {
		uc.logger.Warn("credential_fields_unavailable", "file_id", fileID, "error", err.Error())
	}
	if record == nil {
		eval.Degraded = true
		if category == domain.CategoryTranscript {
			record = credential.DegradedTranscriptRecord(text)
		}
	}
	eval.Record = record

	eval.Equivalency = uc.equivalency.DetermineEquivalency(ctx, text, category, record)

	if record != nil {
		if gpa, ok := credential.CalculateGPA(record.Courses); ok {
			eval.GPA = &gpa
		}
	}
	return eval
}

func (uc *EvaluateCredentialUseCase) recordLetter(ctx context.Context, file *domain.EvaluationFile) (*domain.Letter, error) {
	now := time.Now().UTC()
	letter := &domain.Letter{
		ID:        uuid.NewString(),
		CaseID:    file.CaseID,
		Kind:      domain.LetterEvaluation,
		Content:   file.Evaluation.Equivalency,
		Status:    domain.LetterDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.letters.CreateLetter(ctx, letter); err != nil {
		return nil, fmt.Errorf("create evaluation letter: %w", err)
	}
	return letter, nil
}

func (uc *EvaluateCredentialUseCase) GetEvaluation(ctx context.Context, id string) (*domain.EvaluationFile, error) {
	return uc.files.GetEvaluationFile(ctx, id)
}

// ListEvaluations returns every tracked evaluation, oldest first.
func (uc *EvaluateCredentialUseCase) ListEvaluations(ctx context.Context) ([]domain.EvaluationFile, error) {
	files, err := uc.files.ListEvaluationFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return files, nil
}

// UpdateEquivalency replaces the narrative with reviewer-edited text.
func (uc *EvaluateCredentialUseCase) UpdateEquivalency(ctx context.Context, id, text string) (*domain.EvaluationFile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "update equivalency", errors.New("text is required"))
	}
	file, err := uc.files.GetEvaluationFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Evaluation == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "update equivalency", errors.New("file has not been evaluated"))
	}
	if err := file.Advance(domain.FileEdited, time.Now().UTC()); err != nil {
		return nil, err
	}
	file.Evaluation.Equivalency = text
	if file.LetterID != "" {
		if err := uc.letters.UpdateLetterContent(ctx, file.LetterID, text, domain.LetterRefined); err != nil {
			return nil, fmt.Errorf("update evaluation letter: %w", err)
		}
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *EvaluateCredentialUseCase) CompleteEvaluation(ctx context.Context, id string) (*domain.EvaluationFile, error) {
	file, err := uc.files.GetEvaluationFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Evaluation == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "complete evaluation", errors.New("file has not been evaluated"))
	}
	if err := file.Advance(domain.FileCompleted, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *EvaluateCredentialUseCase) ExportEvaluation(ctx context.Context, id string) ([]byte, error) {
	file, err := uc.files.GetEvaluationFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Evaluation == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "export evaluation", errors.New("file has not been evaluated"))
	}
	out, err := uc.exporter.ExportEvaluation(file)
	if err != nil {
		return nil, fmt.Errorf("export evaluation: %w", err)
	}
	return out, nil
}

func (uc *EvaluateCredentialUseCase) save(ctx context.Context, file *domain.EvaluationFile) error {
	if err := uc.files.SaveEvaluationFile(ctx, file); err != nil {
		return fmt.Errorf("save evaluation file: %w", err)
	}
	return nil
}
