package genservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/resilience"
)

type observerSpy struct {
	mu       sync.Mutex
	statuses []string
}

func (o *observerSpy) ObserveGeneration(_ string, status string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.statuses = append(o.statuses, status)
}

func TestGenerateSendsDocumentFields(t *testing.T) {
	var payload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"summary":"  a short summary  "}`))
	}))
	defer server.Close()

	spy := &observerSpy{}
	client := New(server.URL, "", time.Second, WithObserver(spy))
	got, err := client.Generate(context.Background(), domain.GenerationRequest{
		DocumentType: "summary",
		DocumentName: "diploma.pdf",
		DocumentText: "Bachelor of Science",
		Prompt:       "Summarize.",
	})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "a short summary" {
		t.Fatalf("unexpected summary %q", got)
	}
	if payload["documentType"] != "summary" || payload["documentName"] != "diploma.pdf" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload["documentText"] != "Bachelor of Science" || payload["prompt"] != "Summarize." {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if len(spy.statuses) != 1 || spy.statuses[0] != "ok" {
		t.Fatalf("unexpected observed statuses: %v", spy.statuses)
	}
}

func TestGenerateErrorFieldIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"summary":"","error":"model overloaded"}`))
	}))
	defer server.Close()

	client := New(server.URL, "/generate", time.Second)
	_, err := client.Generate(context.Background(), domain.GenerationRequest{DocumentType: "summary"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("expected service message in error, got %v", err)
	}
	if domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("service errors are not temporary: %v", err)
	}
}

func TestGenerateIncludesHTTPBodyInError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	spy := &observerSpy{}
	client := New(server.URL, "/generate", time.Second, WithObserver(spy))
	_, err := client.Generate(context.Background(), domain.GenerationRequest{})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Fatalf("expected response body in error, got %v", err)
	}
	if !domain.IsKind(err, domain.ErrTemporary) {
		t.Fatalf("expected 502 to be temporary, got %v", err)
	}
	if len(spy.statuses) != 1 || spy.statuses[0] != "error" {
		t.Fatalf("unexpected observed statuses: %v", spy.statuses)
	}
}

func TestGenerateRetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"summary":"ok"}`))
	}))
	defer server.Close()

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     2,
	})
	client := New(server.URL, "/generate", time.Second, WithExecutor(exec))
	got, err := client.Generate(context.Background(), domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got != "ok" || calls.Load() != 2 {
		t.Fatalf("expected retry then success, got %q after %d calls", got, calls.Load())
	}
}

func TestGenerateDoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad prompt", http.StatusBadRequest)
	}))
	defer server.Close()

	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: time.Millisecond,
		RetryMaxBackoff:     time.Millisecond,
		RetryMultiplier:     2,
	})
	client := New(server.URL, "/generate", time.Second, WithExecutor(exec))
	if _, err := client.Generate(context.Background(), domain.GenerationRequest{}); err == nil {
		t.Fatalf("expected error")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single attempt, got %d", calls.Load())
	}
}
