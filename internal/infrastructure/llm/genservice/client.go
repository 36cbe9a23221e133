// Package genservice is the client of the external text-generation service.
package genservice

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/petition-assistant/internal/core/domain"
	"github.com/kirillkom/petition-assistant/internal/infrastructure/resilience"
)

const operationGenerate = "generation.generate"

type Client struct {
	baseURL    string
	path       string
	httpClient *http.Client
	executor   *resilience.Executor
	observer   Observer
}

// Observer is notified once per Generate call with its outcome.
type Observer interface {
	ObserveGeneration(operation string, status string, duration time.Duration)
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) { client.httpClient = c }
}

func WithExecutor(e *resilience.Executor) Option {
	return func(client *Client) { client.executor = e }
}

func WithObserver(o Observer) Option {
	return func(client *Client) { client.observer = o }
}

func New(baseURL, path string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	if path == "" {
		path = "/generate"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		path:       path,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generateResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error,omitempty"`
}

// Generate sends one request. An empty summary is returned as "" and left to
// callers; a non-empty error field is a failure.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (string, error) {
	started := time.Now()
	summary, err := resilience.Call(ctx, c.executor, operationGenerate, func(ctx context.Context) (string, error) {
		var response generateResponse
		if err := c.postJSON(ctx, c.path, req, &response, "generate"); err != nil {
			return "", err
		}
		if msg := strings.TrimSpace(response.Error); msg != "" {
			return "", &ServiceError{Message: msg}
		}
		return response.Summary, nil
	}, classifyGenerationError)
	c.observe(started, err)
	if err != nil {
		return "", wrapTemporaryIfNeeded(operationGenerate, err)
	}
	return strings.TrimSpace(summary), nil
}

func (c *Client) observe(started time.Time, err error) {
	if c.observer == nil {
		return
	}
	status := "ok"
	switch {
	case err == nil:
	case resilience.IsCircuitOpen(err):
		status = "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		status = "timeout"
	default:
		status = "error"
	}
	c.observer.ObserveGeneration(operationGenerate, status, time.Since(started))
}
