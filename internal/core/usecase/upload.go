package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

// bufferUpload reads the upload once so it can be both stored and extracted.
func bufferUpload(upload ports.Upload) ([]byte, error) {
	if strings.TrimSpace(upload.FileName) == "" || upload.Body == nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("file is required"))
	}
	data, err := io.ReadAll(upload.Body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", err)
	}
	if len(data) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read upload", errors.New("file is empty"))
	}
	return data, nil
}

// extractText runs the extractor and turns a failed extraction into an ErrExtraction error.
func extractText(ctx context.Context, extractor ports.TextExtractor, body io.Reader, mimeType, fileName string) (domain.ExtractedDocument, error) {
	extracted, err := extractor.Extract(ctx, body, mimeType, fileName)
	if err != nil {
		return domain.ExtractedDocument{}, fmt.Errorf("extract text: %w", err)
	}
	if extracted.Failed() {
		return extracted, domain.WrapError(domain.ErrExtraction, "extract text", errors.New(extracted.Error))
	}
	if strings.TrimSpace(extracted.Text) == "" {
		return extracted, domain.WrapError(domain.ErrExtraction, "extract text", errors.New("empty extracted text"))
	}
	return extracted, nil
}

func storeBytes(ctx context.Context, storage ports.ObjectStorage, key string, data []byte) error {
	if err := storage.Save(ctx, key, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("save to object storage: %w", err)
	}
	return nil
}
