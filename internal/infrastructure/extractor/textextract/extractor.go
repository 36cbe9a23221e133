// Package textextract turns uploaded files into plain text. Format failures
// are reported inside domain.ExtractedDocument; Extract only returns an error
// when the input matches no known type at all.
package textextract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

type kind int

const (
	kindUnknown kind = iota
	kindPDF
	kindDOCX
	kindImage
	kindHTML
	kindText
)

// Observer receives one outcome per Extract call ("ok", "empty", "failed", "unsupported").
type Observer interface {
	ObserveExtraction(sourceType string, outcome string)
}

type Extractor struct {
	ocr      *OCR
	logger   *slog.Logger
	observer Observer
}

type Option func(*Extractor)

func WithOCR(ocr *OCR) Option {
	return func(e *Extractor) { e.ocr = ocr }
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) { e.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(e *Extractor) { e.observer = o }
}

func New(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.ocr == nil {
		e.ocr = NewOCR(OCRConfig{})
	}
	return e
}

func (e *Extractor) Extract(ctx context.Context, body io.Reader, declaredType, fileName string) (domain.ExtractedDocument, error) {
	if body == nil {
		return domain.ExtractedDocument{}, domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("empty body"))
	}

	k := kindFromHint(declaredType)
	if k == kindUnknown {
		k = kindFromHint(strings.TrimPrefix(filepath.Ext(fileName), "."))
	}

	var (
		doc domain.ExtractedDocument
		err error
	)
	switch k {
	case kindPDF:
		doc = extractPDF(body)
	case kindDOCX:
		doc = extractDOCX(body, isLegacyDoc(declaredType, fileName))
	case kindImage:
		doc = e.ocr.Extract(ctx, body, fileName)
	case kindHTML:
		doc = extractHTML(body, declaredType)
	case kindText:
		doc = extractPlain(body)
	default:
		doc, err = extractUnknown(body)
	}

	e.report(doc, err, declaredType, fileName)
	return doc, err
}

// kindFromHint matches a lowercased MIME type or extension by substring, in
// precedence order.
func kindFromHint(hint string) kind {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" {
		return kindUnknown
	}
	switch {
	case strings.Contains(hint, "pdf"):
		return kindPDF
	case containsAny(hint, "docx", "doc", "word"):
		return kindDOCX
	case containsAny(hint, "image", "jpg", "jpeg", "png", "bmp", "tiff", "tif", "gif", "webp"):
		return kindImage
	case containsAny(hint, "html", "htm"):
		return kindHTML
	case containsAny(hint, "txt", "text"):
		return kindText
	default:
		return kindUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func isLegacyDoc(declaredType, fileName string) bool {
	declaredType = strings.ToLower(declaredType)
	if strings.Contains(declaredType, "msword") {
		return true
	}
	return strings.EqualFold(filepath.Ext(fileName), ".doc")
}

// extractUnknown tries PDF, then UTF-8 text.
func extractUnknown(body io.Reader) (domain.ExtractedDocument, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return domain.FailedExtraction(domain.SourceText, fmt.Errorf("read body: %w", err)), nil
	}
	if pdfDoc := extractPDF(bytes.NewReader(raw)); !pdfDoc.Failed() && strings.TrimSpace(pdfDoc.Text) != "" {
		return pdfDoc, nil
	}
	if len(raw) > 0 && utf8.Valid(raw) {
		return domain.NewExtracted(domain.SourceText, string(raw), map[string]any{"encoding": "utf-8"}), nil
	}
	return domain.ExtractedDocument{}, domain.WrapError(domain.ErrInvalidInput, "extract text", fmt.Errorf("unrecognized file type"))
}

// readerAt avoids buffering when the body already supports random access.
func readerAt(body io.Reader) (io.ReaderAt, int64, error) {
	switch r := body.(type) {
	case *bytes.Reader:
		return r, r.Size(), nil
	case *os.File:
		info, err := r.Stat()
		if err != nil {
			return nil, 0, fmt.Errorf("stat file: %w", err)
		}
		return r, info.Size(), nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, 0, fmt.Errorf("read body: %w", err)
	}
	return bytes.NewReader(raw), int64(len(raw)), nil
}

func (e *Extractor) report(doc domain.ExtractedDocument, err error, declaredType, fileName string) {
	outcome := "ok"
	source := string(doc.SourceType)
	switch {
	case err != nil:
		outcome = "unsupported"
		source = "unknown"
		e.logger.Warn("extraction_unsupported", "file_name", fileName, "declared_type", declaredType, "error", err)
	case doc.Failed():
		outcome = "failed"
		e.logger.Warn("extraction_failed", "file_name", fileName, "source_type", source, "error", doc.Error)
	case strings.TrimSpace(doc.Text) == "":
		outcome = "empty"
	}
	if e.observer != nil {
		e.observer.ObserveExtraction(source, outcome)
	}
}
