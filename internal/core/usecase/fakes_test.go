package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

type statusCall struct {
	status domain.DocumentStatus
	errMsg string
}

type docRepoFake struct {
	docs        map[string]*domain.Document
	order       []string
	createErr   error
	saveErr     error
	statusCalls []statusCall
	analyses    map[string]domain.DocumentAnalysis
}

func newDocRepoFake(docs ...domain.Document) *docRepoFake {
	f := &docRepoFake{docs: map[string]*domain.Document{}, analyses: map[string]domain.DocumentAnalysis{}}
	for i := range docs {
		d := docs[i]
		f.docs[d.ID] = &d
		f.order = append(f.order, d.ID)
	}
	return f
}

func (f *docRepoFake) Create(_ context.Context, doc *domain.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	copyDoc := *doc
	f.docs[doc.ID] = &copyDoc
	f.order = append(f.order, doc.ID)
	return nil
}

func (f *docRepoFake) GetByID(_ context.Context, id string) (*domain.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	copyDoc := *d
	return &copyDoc, nil
}

func (f *docRepoFake) ListByCase(_ context.Context, caseID string) ([]domain.Document, error) {
	var out []domain.Document
	for _, id := range f.order {
		if d := f.docs[id]; d.CaseID == caseID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *docRepoFake) UpdateStatus(_ context.Context, id string, status domain.DocumentStatus, errMessage string) error {
	f.statusCalls = append(f.statusCalls, statusCall{status: status, errMsg: errMessage})
	if d, ok := f.docs[id]; ok {
		d.Status = status
		d.Error = errMessage
	}
	return nil
}

func (f *docRepoFake) SaveAnalysis(_ context.Context, id string, analysis domain.DocumentAnalysis) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.analyses[id] = analysis
	return nil
}

type caseRepoFake struct {
	cases map[string]*domain.Case
}

func newCaseRepoFake(cases ...domain.Case) *caseRepoFake {
	f := &caseRepoFake{cases: map[string]*domain.Case{}}
	for i := range cases {
		c := cases[i]
		f.cases[c.ID] = &c
	}
	return f
}

func (f *caseRepoFake) CreateCase(_ context.Context, c *domain.Case) error {
	copyCase := *c
	f.cases[c.ID] = &copyCase
	return nil
}

func (f *caseRepoFake) GetCase(_ context.Context, id string) (*domain.Case, error) {
	c, ok := f.cases[id]
	if !ok {
		return nil, domain.ErrCaseNotFound
	}
	copyCase := *c
	return &copyCase, nil
}

type letterRepoFake struct {
	letters map[string]*domain.Letter
}

func newLetterRepoFake() *letterRepoFake {
	return &letterRepoFake{letters: map[string]*domain.Letter{}}
}

func (f *letterRepoFake) CreateLetter(_ context.Context, l *domain.Letter) error {
	copyLetter := *l
	f.letters[l.ID] = &copyLetter
	return nil
}

func (f *letterRepoFake) GetLetter(_ context.Context, id string) (*domain.Letter, error) {
	l, ok := f.letters[id]
	if !ok {
		return nil, domain.ErrLetterNotFound
	}
	copyLetter := *l
	return &copyLetter, nil
}

func (f *letterRepoFake) ListLettersByCase(_ context.Context, caseID string) ([]domain.Letter, error) {
	var out []domain.Letter
	for _, l := range f.letters {
		if l.CaseID == caseID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *letterRepoFake) UpdateLetterContent(_ context.Context, id, content string, status domain.LetterStatus) error {
	l, ok := f.letters[id]
	if !ok {
		return domain.ErrLetterNotFound
	}
	l.Content = content
	l.Status = status
	return nil
}

type storageFake struct {
	mu      sync.Mutex
	objects map[string][]byte
	err     error
}

func newStorageFake() *storageFake {
	return &storageFake{objects: map[string][]byte{}}
}

func (f *storageFake) Save(_ context.Context, key string, data io.Reader) error {
	if f.err != nil {
		return f.err
	}
	raw, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = raw
	return nil
}

func (f *storageFake) Open(_ context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

type queueFake struct {
	documentID string
	err        error
}

func (f *queueFake) PublishDocumentIngested(_ context.Context, documentID string) error {
	if f.err != nil {
		return f.err
	}
	f.documentID = documentID
	return nil
}

func (f *queueFake) SubscribeDocumentIngested(context.Context, func(context.Context, string) error) error {
	return errors.New("not implemented")
}

// extractorFake returns the uploaded bytes as text, or a configured failure.
type extractorFake struct {
	failure string
	err     error
}

func (f *extractorFake) Extract(_ context.Context, body io.Reader, _, _ string) (domain.ExtractedDocument, error) {
	if f.err != nil {
		return domain.ExtractedDocument{}, f.err
	}
	if f.failure != "" {
		return domain.FailedExtraction(domain.SourcePDF, errors.New(f.failure)), nil
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		return domain.ExtractedDocument{}, err
	}
	return domain.NewExtracted(domain.SourceText, string(raw), map[string]any{"bytes": len(raw)}), nil
}

// generatorFake answers by DocumentType, falling back to a default response.
type generatorFake struct {
	mu        sync.Mutex
	responses map[string]string
	fallback  string
	err       error
	delay     time.Duration
	requests  []domain.GenerationRequest
}

func (f *generatorFake) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if f.err != nil {
		return "", f.err
	}
	if out, ok := f.responses[req.DocumentType]; ok {
		return out, nil
	}
	return f.fallback, nil
}

func (f *generatorFake) calls() []domain.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.GenerationRequest(nil), f.requests...)
}

type chunkerFake struct{}

func (chunkerFake) Split(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

type evaluationStoreFake struct {
	files map[string]domain.EvaluationFile
	saves []domain.FileStatus
}

func newEvaluationStoreFake() *evaluationStoreFake {
	return &evaluationStoreFake{files: map[string]domain.EvaluationFile{}}
}

func (f *evaluationStoreFake) SaveEvaluationFile(_ context.Context, file *domain.EvaluationFile) error {
	f.files[file.ID] = *file
	f.saves = append(f.saves, file.Status)
	return nil
}

func (f *evaluationStoreFake) GetEvaluationFile(_ context.Context, id string) (*domain.EvaluationFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return &file, nil
}

func (f *evaluationStoreFake) ListEvaluationFiles(context.Context) ([]domain.EvaluationFile, error) {
	out := make([]domain.EvaluationFile, 0, len(f.files))
	for _, file := range f.files {
		out = append(out, file)
	}
	return out, nil
}

type translationStoreFake struct {
	files map[string]domain.TranslationFile
	saves []domain.FileStatus
}

func newTranslationStoreFake() *translationStoreFake {
	return &translationStoreFake{files: map[string]domain.TranslationFile{}}
}

func (f *translationStoreFake) SaveTranslationFile(_ context.Context, file *domain.TranslationFile) error {
	f.files[file.ID] = *file
	f.saves = append(f.saves, file.Status)
	return nil
}

func (f *translationStoreFake) GetTranslationFile(_ context.Context, id string) (*domain.TranslationFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	return &file, nil
}

func (f *translationStoreFake) ListTranslationFiles(context.Context) ([]domain.TranslationFile, error) {
	out := make([]domain.TranslationFile, 0, len(f.files))
	for _, file := range f.files {
		out = append(out, file)
	}
	return out, nil
}

type exporterFake struct {
	exported *domain.EvaluationFile
}

func (f *exporterFake) ExportEvaluation(file *domain.EvaluationFile) ([]byte, error) {
	f.exported = file
	return []byte("xlsx"), nil
}
