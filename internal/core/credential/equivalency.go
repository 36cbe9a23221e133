package credential

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
	"github.com/kirillkom/petition-assistant/internal/core/prompting"
)

const equivalencyUnavailable = "Unable to determine US equivalency: "

// EquivalencyReasoner produces the narrative US-equivalency report.
type EquivalencyReasoner struct {
	generator ports.TextGenerator
	maxChars  int
	logger    *slog.Logger
}

func NewEquivalencyReasoner(generator ports.TextGenerator, maxChars int, logger *slog.Logger) *EquivalencyReasoner {
	if maxChars <= 0 {
		maxChars = prompting.DefaultMaxChars
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &EquivalencyReasoner{generator: generator, maxChars: maxChars, logger: logger}
}

// DetermineEquivalency never fails: errors are folded into the returned narrative.
func (r *EquivalencyReasoner) DetermineEquivalency(ctx context.Context, text string, category domain.DocumentCategory, record *domain.CredentialRecord) string {
	out, err := r.generator.Generate(ctx, domain.GenerationRequest{
		DocumentType: string(category),
		DocumentText: prompting.Snippet(text, r.maxChars),
		Prompt:       EquivalencyPrompt(category, record),
	})
	if err != nil {
		r.logger.Warn("equivalency_failed", "category", string(category), "error", err.Error())
		return equivalencyUnavailable + err.Error()
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return equivalencyUnavailable + "empty response from generation service"
	}
	return out
}
