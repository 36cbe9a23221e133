package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/petition-assistant/internal/core/classify"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
	"github.com/kirillkom/petition-assistant/internal/core/prompting"
)

const degradedSummaryChars = 400

type ProcessDocumentUseCase struct {
	repo      ports.DocumentRepository
	storage   ports.ObjectStorage
	extractor ports.TextExtractor
	generator ports.TextGenerator
	maxChars  int
	logger    *slog.Logger
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	generator ports.TextGenerator,
	maxChars int,
	logger *slog.Logger,
) *ProcessDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcessDocumentUseCase{
		repo:      repo,
		storage:   storage,
		extractor: extractor,
		generator: generator,
		maxChars:  maxChars,
		logger:    logger,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.markStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	analysis, err := uc.processPipeline(ctx, documentID)
	if err != nil {
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.repo.SaveAnalysis(ctx, documentID, analysis); err != nil {
		err = fmt.Errorf("save analysis: %w", err)
		if failErr := uc.markFailed(ctx, documentID, err); failErr != nil {
			return fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return err
	}

	if err := uc.markStatus(ctx, documentID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

// ReprocessCase processes every document of a case one at a time. A failing
// document is recorded in the summary and does not stop the batch.
func (uc *ProcessDocumentUseCase) ReprocessCase(ctx context.Context, caseID string) (domain.ReprocessSummary, error) {
	summary := domain.ReprocessSummary{CaseID: caseID, Errors: map[string]string{}}
	docs, err := uc.repo.ListByCase(ctx, caseID)
	if err != nil {
		return summary, fmt.Errorf("list case documents: %w", err)
	}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := uc.ProcessByID(ctx, doc.ID); err != nil {
			summary.Failed++
			summary.Errors[doc.ID] = err.Error()
			continue
		}
		summary.Processed++
	}
	return summary, nil
}

func (uc *ProcessDocumentUseCase) processPipeline(ctx context.Context, documentID string) (domain.DocumentAnalysis, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return domain.DocumentAnalysis{}, fmt.Errorf("fetch document by id: %w", err)
	}

	extracted, err := uc.extract(ctx, doc)
	if err != nil {
		return domain.DocumentAnalysis{}, err
	}

	category := classify.ClassifyWithHint(extracted.Text, doc.Filename)
	summary := uc.summarize(ctx, doc, category, extracted.Text)

	return domain.DocumentAnalysis{
		SourceType: extracted.SourceType,
		Category:   category,
		Tags:       summary.Tags,
		Summary:    summary.Summary,
		Text:       extracted.Text,
		Metadata:   extracted.Metadata,
	}, nil
}

func (uc *ProcessDocumentUseCase) extract(ctx context.Context, doc *domain.Document) (domain.ExtractedDocument, error) {
	rc, err := uc.storage.Open(ctx, doc.StoragePath)
	if err != nil {
		return domain.ExtractedDocument{}, fmt.Errorf("open source document: %w", err)
	}
	defer rc.Close()
	return extractText(ctx, uc.extractor, rc, doc.MimeType, doc.Filename)
}

// summarize degrades to a text excerpt tagged with the category when the
// generation service fails or answers with something unparseable.
func (uc *ProcessDocumentUseCase) summarize(ctx context.Context, doc *domain.Document, category domain.DocumentCategory, text string) summaryResponse {
	raw, err := uc.generator.Generate(ctx, domain.GenerationRequest{
		DocumentType: string(category),
		DocumentName: doc.Filename,
		DocumentText: prompting.Snippet(text, uc.maxChars),
		Prompt:       summaryPrompt(category),
	})
	if err == nil {
		parsed, parseErr := parseSummary(raw)
		if parseErr == nil {
			return withCategoryTag(parsed, category)
		}
		err = parseErr
	}
	uc.logger.Warn("summary_degraded", "document_id", doc.ID, "error", err.Error())
	return withCategoryTag(summaryResponse{Summary: prompting.Snippet(text, degradedSummaryChars)}, category)
}

func withCategoryTag(s summaryResponse, category domain.DocumentCategory) summaryResponse {
	s.Tags = normalizeTags(append([]string{string(category)}, s.Tags...))
	return s
}

func (uc *ProcessDocumentUseCase) markStatus(ctx context.Context, documentID string, status domain.DocumentStatus, errMessage string) error {
	return uc.repo.UpdateStatus(ctx, documentID, status, errMessage)
}

func (uc *ProcessDocumentUseCase) markFailed(ctx context.Context, documentID string, processErr error) error {
	if processErr == nil {
		return nil
	}
	return uc.markStatus(ctx, documentID, domain.StatusFailed, processErr.Error())
}
