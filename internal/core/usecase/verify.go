package usecase

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/authenticity"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
	"github.com/kirillkom/petition-assistant/internal/core/prompting"
)

const DefaultAnalysisTimeout = 15 * time.Second

type VerifyDocumentUseCase struct {
	extractor ports.TextExtractor
	generator ports.TextGenerator
	timeout   time.Duration
	maxChars  int
	logger    *slog.Logger
}

func NewVerifyDocumentUseCase(
	extractor ports.TextExtractor,
	generator ports.TextGenerator,
	timeout time.Duration,
	maxChars int,
	logger *slog.Logger,
) *VerifyDocumentUseCase {
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &VerifyDocumentUseCase{
		extractor: extractor,
		generator: generator,
		timeout:   timeout,
		maxChars:  maxChars,
		logger:    logger,
	}
}

// Verify scores the upload heuristically, then augments the verdict with a
// deadline-bounded generation analysis. When the analysis fails or times out
// the degraded fallback verdict is returned instead.
func (uc *VerifyDocumentUseCase) Verify(ctx context.Context, upload ports.Upload) (domain.VerificationVerdict, error) {
	data, err := bufferUpload(upload)
	if err != nil {
		return domain.VerificationVerdict{}, err
	}
	extracted, err := uc.extractor.Extract(ctx, bytes.NewReader(data), upload.MimeType, upload.FileName)
	if err != nil {
		return domain.VerificationVerdict{}, err
	}
	if extracted.Failed() {
		uc.logger.Warn("verification_extraction_failed", "file_name", upload.FileName, "error", extracted.Error)
	}

	verdict := authenticity.Assess(extracted.Text, upload.FileName)
	verdict.MetadataAnalysis.SourceType = extracted.SourceType
	if verdict.MetadataAnalysis.TextLength < authenticity.MinTextLength {
		return verdict, nil
	}

	analysis, err := runWithDeadline(ctx, uc.timeout, func(ctx context.Context) (analysisResponse, error) {
		raw, err := uc.generator.Generate(ctx, domain.GenerationRequest{
			DocumentType: string(verdict.MetadataAnalysis.Category),
			DocumentName: upload.FileName,
			DocumentText: prompting.Snippet(extracted.Text, uc.maxChars),
			Prompt:       analysisPrompt,
		})
		if err != nil {
			return analysisResponse{}, domain.WrapError(domain.ErrGeneration, "analyze document", err)
		}
		return parseAnalysis(raw)
	})
	if errors.Is(err, context.Canceled) {
		return domain.VerificationVerdict{}, err
	}
	if err != nil {
		uc.logger.Warn("verification_fallback", "file_name", upload.FileName, "error", err.Error())
		fallback := authenticity.FallbackVerdict(upload.FileName)
		fallback.MetadataAnalysis = verdict.MetadataAnalysis
		fallback.ExtractedInfo = verdict.ExtractedInfo
		return fallback, nil
	}

	return mergeAnalysis(verdict, analysis), nil
}

// mergeAnalysis adds the narrative, fills facts the heuristics missed and
// appends new flags. The score and verdict stay heuristic.
func mergeAnalysis(verdict domain.VerificationVerdict, analysis analysisResponse) domain.VerificationVerdict {
	meta := *verdict.MetadataAnalysis
	meta.Narrative = strings.TrimSpace(analysis.Narrative)
	verdict.MetadataAnalysis = &meta

	info := domain.ExtractedInfo{}
	if verdict.ExtractedInfo != nil {
		info = *verdict.ExtractedInfo
	}
	fillEmpty(&info.Institution, analysis.Institution)
	fillEmpty(&info.RecipientName, analysis.RecipientName)
	fillEmpty(&info.IssueDate, analysis.IssueDate)
	fillEmpty(&info.Credential, analysis.Credential)
	verdict.ExtractedInfo = &info

	flags := append([]string{}, verdict.Flags...)
	seen := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		seen[f] = struct{}{}
	}
	for _, f := range analysis.Flags {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		flags = append(flags, f)
	}
	verdict.Flags = flags
	return verdict
}

func fillEmpty(dst *string, v *string) {
	if *dst != "" || v == nil {
		return
	}
	*dst = strings.TrimSpace(*v)
}
