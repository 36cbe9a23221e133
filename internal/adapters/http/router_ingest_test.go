package httpadapter

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kirillkom/petition-assistant/internal/config"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

func multipartBody(t *testing.T, filename, content string, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("WriteField() error = %v", err)
		}
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("CreateFormFile() error = %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return &body, writer.FormDataContentType()
}

func decodeBody(t *testing.T, res *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestHealthzEndpoint(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{}).Handler()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
}

func TestMetricsEndpointServedWhenEnabled(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{}, WithMetrics(&telemetrySpy{})).Handler()
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if res.Code != http.StatusOK || !strings.Contains(res.Body.String(), "# metrics") {
		t.Fatalf("expected metrics body, got %d %q", res.Code, res.Body.String())
	}
}

func TestUploadDocumentSuccess(t *testing.T) {
	ingest := &ingestFake{}
	handler := NewRouter(config.Config{}, Services{Ingestor: ingest}).Handler()

	body, contentType := multipartBody(t, "file.txt", "hello", map[string]string{"case_id": "case-1"})
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", res.Code)
	}
	docResp := decodeBody(t, res)
	if docResp["id"] != "doc-1" || docResp["case_id"] != "case-1" {
		t.Fatalf("unexpected response: %+v", docResp)
	}
	if ingest.body != "hello" || ingest.upload.FileName != "file.txt" {
		t.Fatalf("unexpected upload: %+v body=%q", ingest.upload, ingest.body)
	}
}

func TestUploadDocumentMissingMultipartField(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{Ingestor: &ingestFake{}}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/documents", bytes.NewBufferString("plain-text"))
	req.Header.Set("Content-Type", "text/plain")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestUploadDocumentTooLarge(t *testing.T) {
	handler := NewRouter(config.Config{MaxUploadBytes: 64}, Services{Ingestor: &ingestFake{}}).Handler()

	body, contentType := multipartBody(t, "big.txt", strings.Repeat("x", 1024), nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/documents", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", res.Code)
	}
}

func TestReprocessDocumentRunsProcessor(t *testing.T) {
	processor := &processorFake{}
	handler := NewRouter(config.Config{}, Services{Processor: processor, Documents: docsFake{}}).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/documents/doc-9/reprocess", nil))

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if len(processor.processed) != 1 || processor.processed[0] != "doc-9" {
		t.Fatalf("expected doc-9 to be processed, got %v", processor.processed)
	}
}

func TestCaseEndpoints(t *testing.T) {
	cases := &casesFake{}
	handler := NewRouter(config.Config{}, Services{Cases: cases, Processor: &processorFake{}}).Handler()

	res := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/cases", bytes.NewBufferString(`{"applicant_name":"Ada Lovelace","visa_type":"EB-1A"}`))
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusCreated {
		t.Fatalf("create case expected 201, got %d", res.Code)
	}
	if cases.created == nil || cases.created.VisaType != "EB-1A" {
		t.Fatalf("unexpected created case: %+v", cases.created)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/cases/case-1/documents", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("list documents expected 200, got %d", res.Code)
	}
	if docs, ok := decodeBody(t, res)["documents"].([]any); !ok || len(docs) != 1 {
		t.Fatalf("expected one document in listing")
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/cases/case-1/reprocess", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("reprocess case expected 200, got %d", res.Code)
	}
	if got := decodeBody(t, res)["processed"]; got != float64(2) {
		t.Fatalf("expected processed=2, got %v", got)
	}
}

func TestVerificationRecordsVerdict(t *testing.T) {
	spy := &telemetrySpy{}
	handler := NewRouter(config.Config{}, Services{
		Verifier: verifierFake{verdict: domain.VerificationVerdict{
			Verdict:         domain.VerdictInconclusive,
			ConfidenceScore: 55,
			Flags:           []string{"no signature found"},
		}},
	}, WithMetrics(spy)).Handler()

	body, contentType := multipartBody(t, "diploma.pdf", "%PDF-1.4", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/verifications", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got := decodeBody(t, res)["verdict"]; got != string(domain.VerdictInconclusive) {
		t.Fatalf("unexpected verdict %v", got)
	}
	if len(spy.verifications) != 1 || spy.verifications[0] != string(domain.VerdictInconclusive) {
		t.Fatalf("expected verdict telemetry, got %v", spy.verifications)
	}
}

func TestEvaluationFlow(t *testing.T) {
	evaluator := &evaluatorFake{export: []byte("PK\x03\x04xlsx")}
	handler := NewRouter(config.Config{}, Services{Evaluator: evaluator}).Handler()

	body, contentType := multipartBody(t, "transcript.pdf", "%PDF-1.4", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/evaluations", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusCreated {
		t.Fatalf("evaluate expected 201, got %d", res.Code)
	}

	res = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/v1/evaluations/eval-1/equivalency", bytes.NewBufferString(`{"text":"US Bachelor"}`))
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusOK {
		t.Fatalf("update equivalency expected 200, got %d", res.Code)
	}
	if got := decodeBody(t, res)["status"]; got != string(domain.FileEdited) {
		t.Fatalf("expected edited status, got %v", got)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/evaluations/eval-1/export", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("export expected 200, got %d", res.Code)
	}
	if res.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("unexpected content type %q", res.Header().Get("Content-Type"))
	}
	if !strings.Contains(res.Header().Get("Content-Disposition"), "evaluation-eval-1.xlsx") {
		t.Fatalf("unexpected disposition %q", res.Header().Get("Content-Disposition"))
	}
	if res.Body.String() != string(evaluator.export) {
		t.Fatalf("unexpected export body")
	}
}

func TestListCollectionEndpoints(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{
		Evaluator:  &evaluatorFake{},
		Translator: &translatorFake{},
	}).Handler()

	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/evaluations", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("list evaluations expected 200, got %d", res.Code)
	}
	evaluations, ok := decodeBody(t, res)["evaluations"].([]any)
	if !ok || len(evaluations) != 1 {
		t.Fatalf("expected one evaluation, got %v", evaluations)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/translations", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("list translations expected 200, got %d", res.Code)
	}
	translations, ok := decodeBody(t, res)["translations"].([]any)
	if !ok || len(translations) != 0 {
		t.Fatalf("expected an empty translations array, got %v", translations)
	}
}

func TestTranslationRequiresTargetLanguage(t *testing.T) {
	translator := &translatorFake{}
	handler := NewRouter(config.Config{}, Services{Translator: translator}).Handler()

	body, contentType := multipartBody(t, "letter.txt", "Hola", nil)
	req := httptest.NewRequest(http.MethodPost, "/v1/translations", body)
	req.Header.Set("Content-Type", contentType)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without target language, got %d", res.Code)
	}

	body, contentType = multipartBody(t, "letter.txt", "Hola", map[string]string{"target_language": "English"})
	req = httptest.NewRequest(http.MethodPost, "/v1/translations", body)
	req.Header.Set("Content-Type", contentType)
	res = httptest.NewRecorder()
	handler.ServeHTTP(res, req)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", res.Code)
	}
	if translator.target != "English" {
		t.Fatalf("expected target language to reach the service, got %q", translator.target)
	}
}

func TestLetterEndpoints(t *testing.T) {
	spy := &telemetrySpy{}
	letters := &lettersFake{}
	handler := NewRouter(config.Config{}, Services{Letters: letters}, WithMetrics(spy)).Handler()

	body := `{"case_id":"case-1","evidence":{"visa_type":"EB-1A","tags":["ai"],"applicant":{"name":"Ada"},"expert":{"name":"Grace","title":"Professor"}}}`
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/letters/expert", bytes.NewBufferString(body)))
	if res.Code != http.StatusCreated {
		t.Fatalf("draft expert expected 201, got %d", res.Code)
	}
	if letters.caseID != "case-1" || letters.expert.Expert.Title != "Professor" {
		t.Fatalf("unexpected evidence passed: case=%q %+v", letters.caseID, letters.expert)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodPost, "/v1/letters/letter-1/refine", bytes.NewBufferString(`{"instructions":"shorter"}`)))
	if res.Code != http.StatusOK {
		t.Fatalf("refine expected 200, got %d", res.Code)
	}
	if letters.instructions != "shorter" {
		t.Fatalf("unexpected instructions %q", letters.instructions)
	}

	res = httptest.NewRecorder()
	handler.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/v1/samples?visa_type=EB-1A&tags=ai,%20research,", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("samples expected 200, got %d", res.Code)
	}
	if letters.samplesVisa != "EB-1A" || len(letters.samplesTags) != 2 || letters.samplesTags[1] != "research" {
		t.Fatalf("unexpected sample query: %q %v", letters.samplesVisa, letters.samplesTags)
	}

	want := []string{"expert:drafted", "expert:refined"}
	if len(spy.letters) != len(want) || spy.letters[0] != want[0] || spy.letters[1] != want[1] {
		t.Fatalf("unexpected letter telemetry %v", spy.letters)
	}
}
