package httpadapter

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kirillkom/petition-assistant/internal/config"
	"github.com/kirillkom/petition-assistant/internal/core/domain"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", domain.WrapError(domain.ErrInvalidInput, "op", errors.New("bad")), http.StatusBadRequest},
		{"case not found", domain.WrapError(domain.ErrCaseNotFound, "op", errors.New("id=x")), http.StatusNotFound},
		{"letter not found", domain.WrapError(domain.ErrLetterNotFound, "op", errors.New("id=x")), http.StatusNotFound},
		{"file not found", domain.WrapError(domain.ErrFileNotFound, "op", errors.New("id=x")), http.StatusNotFound},
		{"timeout", domain.WrapError(domain.ErrTimeout, "op", errors.New("slow")), http.StatusGatewayTimeout},
		{"temporary", domain.WrapError(domain.ErrTemporary, "op", errors.New("busy")), http.StatusServiceUnavailable},
		{"extraction", domain.WrapError(domain.ErrExtraction, "op", errors.New("corrupt")), http.StatusUnprocessableEntity},
		{"generation", domain.WrapError(domain.ErrGeneration, "op", errors.New("down")), http.StatusBadGateway},
		{"parse", domain.WrapError(domain.ErrParse, "op", errors.New("not json")), http.StatusBadGateway},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := mapErrorToHTTPStatus(tt.err); got != tt.want {
			t.Fatalf("%s: expected %d, got %d", tt.name, tt.want, got)
		}
	}
}

func TestGetDocumentByIDReturns404ForNotFound(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{
		Documents: docsFake{err: domain.WrapError(domain.ErrDocumentNotFound, "get", errors.New("id=missing"))},
	}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/documents/missing", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestCreateCaseValidatesBody(t *testing.T) {
	cases := &casesFake{}
	handler := NewRouter(config.Config{}, Services{Cases: cases}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/cases", bytes.NewBufferString(`{"applicant_name":"Ada"}`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if !bytes.Contains(res.Body.Bytes(), []byte("VisaType")) {
		t.Fatalf("expected validation details, got %s", res.Body.String())
	}
	if cases.created != nil {
		t.Fatalf("service must not be called on invalid body")
	}
}

func TestMalformedJSONReturns400(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{Letters: &lettersFake{}}).Handler()

	req := httptest.NewRequest(http.MethodPost, "/v1/letters/letter-1/refine", bytes.NewBufferString(`{"instructions":`))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestGenerationFailureReturns502(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{
		Letters: &lettersFake{err: domain.WrapError(domain.ErrGeneration, "draft", errors.New("service down"))},
	}).Handler()

	body := `{"evidence":{"visa_type":"EB-1A","applicant":{"name":"Ada"},"expert":{"name":"Grace"}}}`
	req := httptest.NewRequest(http.MethodPost, "/v1/letters/expert", bytes.NewBufferString(body))
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", res.Code)
	}
}

func TestDisabledServiceReturns501(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{}).Handler()

	req := httptest.NewRequest(http.MethodGet, "/v1/evaluations/eval-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNotImplemented {
		t.Fatalf("expected 501, got %d", res.Code)
	}
}

func TestWrongMethodReturns405(t *testing.T) {
	handler := NewRouter(config.Config{}, Services{Cases: &casesFake{}}).Handler()

	req := httptest.NewRequest(http.MethodDelete, "/v1/cases/case-1", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", res.Code)
	}
}
