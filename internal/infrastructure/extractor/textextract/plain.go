package textextract

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"golang.org/x/net/html/charset"
)

// extractPlain returns UTF-8 input unchanged; other encodings are decoded
// using the sniffed charset.
func extractPlain(body io.Reader) domain.ExtractedDocument {
	raw, err := io.ReadAll(body)
	if err != nil {
		return domain.FailedExtraction(domain.SourceText, fmt.Errorf("read text: %w", err))
	}
	if utf8.Valid(raw) {
		return domain.NewExtracted(domain.SourceText, string(raw), map[string]any{"encoding": "utf-8"})
	}

	enc, name, _ := charset.DetermineEncoding(raw, "text/plain")
	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return domain.FailedExtraction(domain.SourceText, fmt.Errorf("decode %s text: %w", name, err))
	}
	return domain.NewExtracted(domain.SourceText, string(decoded), map[string]any{"encoding": name})
}
