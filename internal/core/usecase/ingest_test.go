package usecase

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

func TestIngestUploadSuccess(t *testing.T) {
	repo := newDocRepoFake()
	storage := newStorageFake()
	queue := &queueFake{}
	cases := newCaseRepoFake(domain.Case{ID: "case-1"})
	uc := NewIngestDocumentUseCase(repo, cases, storage, queue)

	doc, err := uc.Upload(context.Background(), ports.Upload{
		CaseID:   "case-1",
		FileName: "report 1.txt",
		MimeType: "text/plain",
		Body:     bytes.NewBufferString("hello"),
	})
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if doc.ID == "" {
		t.Fatalf("expected document id")
	}
	if doc.Status != domain.StatusUploaded {
		t.Fatalf("expected status uploaded, got %s", doc.Status)
	}
	if doc.CaseID != "case-1" {
		t.Fatalf("expected case id case-1, got %s", doc.CaseID)
	}
	if _, ok := repo.docs[doc.ID]; !ok {
		t.Fatalf("expected repo.Create call")
	}
	if queue.documentID != doc.ID {
		t.Fatalf("expected queued doc id %s, got %s", doc.ID, queue.documentID)
	}
	if !strings.HasSuffix(doc.StoragePath, "_report_1.txt") {
		t.Fatalf("expected sanitized key suffix, got %s", doc.StoragePath)
	}
	if got := string(storage.objects[doc.StoragePath]); got != "hello" {
		t.Fatalf("expected saved body hello, got %s", got)
	}
}

func TestIngestUploadUnknownCase(t *testing.T) {
	uc := NewIngestDocumentUseCase(newDocRepoFake(), newCaseRepoFake(), newStorageFake(), &queueFake{})

	_, err := uc.Upload(context.Background(), ports.Upload{CaseID: "missing", FileName: "a.pdf", Body: strings.NewReader("x")})
	if !domain.IsKind(err, domain.ErrCaseNotFound) {
		t.Fatalf("expected case not found, got %v", err)
	}
}

func TestIngestUploadRequiresFile(t *testing.T) {
	uc := NewIngestDocumentUseCase(newDocRepoFake(), newCaseRepoFake(), newStorageFake(), &queueFake{})

	_, err := uc.Upload(context.Background(), ports.Upload{FileName: " "})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestIngestUploadQueueError(t *testing.T) {
	uc := NewIngestDocumentUseCase(newDocRepoFake(), newCaseRepoFake(), newStorageFake(), &queueFake{err: errors.New("queue down")})

	_, err := uc.Upload(context.Background(), ports.Upload{FileName: "report.txt", MimeType: "text/plain", Body: bytes.NewBufferString("hello")})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "publish ingestion event") {
		t.Fatalf("expected publish error, got %v", err)
	}
}

func TestIngestUploadStorageError(t *testing.T) {
	repo := newDocRepoFake()
	storage := newStorageFake()
	storage.err = errors.New("disk full")
	uc := NewIngestDocumentUseCase(repo, newCaseRepoFake(), storage, &queueFake{})

	_, err := uc.Upload(context.Background(), ports.Upload{FileName: "report.txt", Body: bytes.NewBufferString("hello")})
	if err == nil || !strings.Contains(err.Error(), "save to object storage") {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(repo.docs) != 0 {
		t.Fatalf("expected no metadata row on storage failure")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"../../etc/passwd":   "passwd",
		"my diploma (1).pdf": "my_diploma__1_.pdf",
		"":                   "document.bin",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
