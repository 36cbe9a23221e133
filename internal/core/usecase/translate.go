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

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

const DefaultTargetLanguage = "English"

type TranslateDocumentUseCase struct {
	files     ports.TranslationFileStore
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	generator ports.TextGenerator
	chunker   ports.Chunker
	logger    *slog.Logger
}

func NewTranslateDocumentUseCase(
	files ports.TranslationFileStore,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	generator ports.TextGenerator,
	chunker ports.Chunker,
	logger *slog.Logger,
) *TranslateDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &TranslateDocumentUseCase{
		files:     files,
		storage:   storage,
		extractor: extractor,
		generator: generator,
		chunker:   chunker,
		logger:    logger,
	}
}

// Translate extracts the upload (status ocr) and translates it chunk by
// chunk in order (status translated).
func (uc *TranslateDocumentUseCase) Translate(ctx context.Context, upload ports.Upload, targetLanguage string) (*domain.TranslationFile, error) {
	data, err := bufferUpload(upload)
	if err != nil {
		return nil, err
	}
	targetLanguage = strings.TrimSpace(targetLanguage)
	if targetLanguage == "" {
		targetLanguage = DefaultTargetLanguage
	}

	id := uuid.NewString()
	now := time.Now().UTC()
	file := &domain.TranslationFile{
		ID:             id,
		CaseID:         upload.CaseID,
		FileName:       upload.FileName,
		MimeType:       upload.MimeType,
		StoragePath:    storageKeyFor(id, upload.FileName),
		TargetLanguage: targetLanguage,
		Status:         domain.FileUploaded,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := storeBytes(ctx, uc.storage, file.StoragePath, data); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}

	extracted, err := extractText(ctx, uc.extractor, bytes.NewReader(data), upload.MimeType, upload.FileName)
	if err != nil {
		return file, uc.fail(ctx, file, err)
	}
	file.Text = extracted.Text
	if err := file.Advance(domain.FileOCR, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}

	translation, err := uc.translateText(ctx, file, extracted.Text)
	if err != nil {
		return file, uc.fail(ctx, file, err)
	}
	file.Translation = translation
	if err := file.Advance(domain.FileTranslated, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *TranslateDocumentUseCase) translateText(ctx context.Context, file *domain.TranslationFile, text string) (string, error) {
	chunks := uc.chunker.Split(text)
	if len(chunks) == 0 {
		return "", domain.WrapError(domain.ErrInvalidInput, "translate document", errors.New("nothing to translate"))
	}
	parts := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		out, err := uc.generator.Generate(ctx, domain.GenerationRequest{
			DocumentType: "translation",
			DocumentName: file.FileName,
			DocumentText: chunk,
			Prompt:       translationPrompt(file.TargetLanguage),
		})
		if err != nil {
			return "", domain.WrapError(domain.ErrGeneration, fmt.Sprintf("translate chunk %d/%d", i+1, len(chunks)), err)
		}
		parts = append(parts, strings.TrimSpace(out))
	}
	return strings.Join(parts, "\n\n"), nil
}

func (uc *TranslateDocumentUseCase) fail(ctx context.Context, file *domain.TranslationFile, cause error) error {
	uc.logger.Warn("translation_failed", "file_id", file.ID, "status", string(file.Status), "error", cause.Error())
	file.Error = cause.Error()
	file.UpdatedAt = time.Now().UTC()
	if err := uc.save(ctx, file); err != nil {
		return fmt.Errorf("%w; %v", cause, err)
	}
	return cause
}

func (uc *TranslateDocumentUseCase) GetTranslation(ctx context.Context, id string) (*domain.TranslationFile, error) {
	return uc.files.GetTranslationFile(ctx, id)
}

// ListTranslations returns every tracked translation, oldest first.
func (uc *TranslateDocumentUseCase) ListTranslations(ctx context.Context) ([]domain.TranslationFile, error) {
	files, err := uc.files.ListTranslationFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return files, nil
}

// UpdateTranslation stores reviewer-edited translation text.
func (uc *TranslateDocumentUseCase) UpdateTranslation(ctx context.Context, id, text string) (*domain.TranslationFile, error) {
	if strings.TrimSpace(text) == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "update translation", errors.New("text is required"))
	}
	file, err := uc.files.GetTranslationFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Text == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "update translation", errors.New("file has no extracted text"))
	}
	if err := file.Advance(domain.FileEdited, time.Now().UTC()); err != nil {
		return nil, err
	}
	file.Translation = text
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *TranslateDocumentUseCase) CompleteTranslation(ctx context.Context, id string) (*domain.TranslationFile, error) {
	file, err := uc.files.GetTranslationFile(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Translation == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "complete translation", errors.New("file has not been translated"))
	}
	if err := file.Advance(domain.FileCompleted, time.Now().UTC()); err != nil {
		return nil, err
	}
	if err := uc.save(ctx, file); err != nil {
		return nil, err
	}
	return file, nil
}

func (uc *TranslateDocumentUseCase) save(ctx context.Context, file *domain.TranslationFile) error {
	if err := uc.files.SaveTranslationFile(ctx, file); err != nil {
		return fmt.Errorf("save translation file: %w", err)
	}
	return nil
}
