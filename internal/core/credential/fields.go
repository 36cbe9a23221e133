package credential

import (
	"context"
	"log/slog"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
	"github.com/kirillkom/petition-assistant/internal/core/prompting"
)

// FieldExtractor asks the generation service for a structured credential record.
type FieldExtractor struct {
	generator ports.TextGenerator
	maxChars  int
	logger    *slog.Logger
}

func NewFieldExtractor(generator ports.TextGenerator, maxChars int, logger *slog.Logger) *FieldExtractor {
	if maxChars <= 0 {
		maxChars = prompting.DefaultMaxChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FieldExtractor{generator: generator, maxChars: maxChars, logger: logger}
}

// ExtractFields performs a single generation call. A response that cannot be
// parsed yields (nil, nil) so the caller can degrade; a failed call is returned
// as an ErrGeneration error.
func (e *FieldExtractor) ExtractFields(ctx context.Context, text string, category domain.DocumentCategory) (*domain.CredentialRecord, error) {
	raw, err := e.generator.Generate(ctx, domain.GenerationRequest{
		DocumentType: string(category),
		DocumentText: prompting.Snippet(text, e.maxChars),
		Prompt:       FieldPrompt(category),
	})
	if err != nil {
		return nil, domain.WrapError(domain.ErrGeneration, "extract credential fields", err)
	}

	record, err := ParseRecord(raw)
	if err != nil {
		e.logger.Warn("credential_parse_failed",
			"category", string(category),
			"error", err.Error(),
			"raw_response", prompting.Snippet(raw, 2000),
		)
		return nil, nil
	}
	return record, nil
}
