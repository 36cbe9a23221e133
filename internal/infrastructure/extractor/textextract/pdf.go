package textextract

import (
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/ledongthuc/pdf"
)

const pdfParser = "ledongthuc/pdf"

func extractPDF(body io.Reader) (doc domain.ExtractedDocument) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			doc = domain.FailedExtraction(domain.SourcePDF, fmt.Errorf("parse pdf: %v", r))
		}
	}()

	ra, size, err := readerAt(body)
	if err != nil {
		return domain.FailedExtraction(domain.SourcePDF, err)
	}
	reader, err := pdf.NewReader(ra, size)
	if err != nil {
		return domain.FailedExtraction(domain.SourcePDF, fmt.Errorf("open pdf: %w", err))
	}

	var b strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return domain.FailedExtraction(domain.SourcePDF, fmt.Errorf("extract page %d: %w", i, err))
		}
		b.WriteString(text)
		if i < pages {
			b.WriteByte('\n')
		}
	}

	return domain.NewExtracted(domain.SourcePDF, strings.TrimSpace(b.String()), map[string]any{
		"pages":  pages,
		"parser": pdfParser,
	})
}
