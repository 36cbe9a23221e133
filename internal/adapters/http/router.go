package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/kirillkom/petition-assistant/internal/config"
	"github.com/kirillkom/petition-assistant/internal/core/ports"
)

const (
	defaultMaxUploadBytes = 25 << 20
	maxJSONBodyBytes      = 1 << 20
)

// Services are the inbound ports served over HTTP. Nil services answer 501.
type Services struct {
	Ingestor   ports.DocumentIngestor
	Documents  ports.DocumentReader
	Processor  ports.DocumentProcessor
	Cases      ports.CaseService
	Evaluator  ports.CredentialEvaluator
	Verifier   ports.DocumentVerifier
	Translator ports.DocumentTranslator
	Letters    ports.LetterDrafter
}

// Telemetry receives request outcomes the router knows about.
type Telemetry interface {
	RecordRejected(reason string)
	RecordVerification(verdict string, score int, degraded bool)
	RecordLetter(kind, action string)
}

// MetricsProvider is an HTTP metrics registry that can also instrument handlers.
type MetricsProvider interface {
	Telemetry
	Handler() http.Handler
	Middleware(service string, next http.Handler) http.Handler
}

type Router struct {
	svc      Services
	validate *validator.Validate

	maxUploadBytes   int64
	limiter          *rate.Limiter
	maxInFlight      int
	backpressureWait time.Duration

	metrics MetricsProvider
}

type RouterOption func(*Router)

func WithMetrics(m MetricsProvider) RouterOption {
	return func(rt *Router) {
		rt.metrics = m
	}
}

func NewRouter(cfg config.Config, svc Services, opts ...RouterOption) *Router {
	rt := &Router{
		svc:              svc,
		validate:         validator.New(validator.WithRequiredStructEnabled()),
		maxUploadBytes:   cfg.MaxUploadBytes,
		maxInFlight:      cfg.APIMaxInFlight,
		backpressureWait: cfg.APIBackpressureWait,
	}
	if rt.maxUploadBytes <= 0 {
		rt.maxUploadBytes = defaultMaxUploadBytes
	}
	if cfg.APIRateLimitRPS > 0 {
		burst := cfg.APIRateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		rt.limiter = rate.NewLimiter(rate.Limit(cfg.APIRateLimitRPS), burst)
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", rt.healthz)
	if rt.metrics != nil {
		mux.Handle("GET /metrics", rt.metrics.Handler())
	}

	mux.HandleFunc("POST /v1/cases", rt.createCase)
	mux.HandleFunc("GET /v1/cases/{id}", rt.getCase)
	mux.HandleFunc("GET /v1/cases/{id}/documents", rt.listCaseDocuments)
	mux.HandleFunc("GET /v1/cases/{id}/letters", rt.listCaseLetters)
	mux.HandleFunc("POST /v1/cases/{id}/reprocess", rt.reprocessCase)

	mux.HandleFunc("POST /v1/documents", rt.uploadDocument)
	mux.HandleFunc("GET /v1/documents/{id}", rt.getDocumentByID)
	mux.HandleFunc("POST /v1/documents/{id}/reprocess", rt.reprocessDocument)

	mux.HandleFunc("POST /v1/evaluations", rt.createEvaluation)
	mux.HandleFunc("GET /v1/evaluations", rt.listEvaluations)
	mux.HandleFunc("GET /v1/evaluations/{id}", rt.getEvaluation)
	mux.HandleFunc("PUT /v1/evaluations/{id}/equivalency", rt.updateEquivalency)
	mux.HandleFunc("POST /v1/evaluations/{id}/complete", rt.completeEvaluation)
	mux.HandleFunc("GET /v1/evaluations/{id}/export", rt.exportEvaluation)

	mux.HandleFunc("POST /v1/verifications", rt.verifyDocument)

	mux.HandleFunc("POST /v1/translations", rt.createTranslation)
	mux.HandleFunc("GET /v1/translations", rt.listTranslations)
	mux.HandleFunc("GET /v1/translations/{id}", rt.getTranslation)
	mux.HandleFunc("PUT /v1/translations/{id}/text", rt.updateTranslation)
	mux.HandleFunc("POST /v1/translations/{id}/complete", rt.completeTranslation)

	mux.HandleFunc("POST /v1/letters/expert", rt.draftExpertLetter)
	mux.HandleFunc("POST /v1/letters/petition", rt.draftPetitionLetter)
	mux.HandleFunc("GET /v1/letters/{id}", rt.getLetter)
	mux.HandleFunc("POST /v1/letters/{id}/refine", rt.refineLetter)
	mux.HandleFunc("GET /v1/samples", rt.listSamples)

	var handler http.Handler = mux
	handler = backpressureMiddleware(handler, rt.maxInFlight, rt.backpressureWait, rt.recordRejected)
	handler = rateLimitMiddleware(handler, rt.limiter, rt.recordRejected)
	if rt.metrics != nil {
		handler = rt.metrics.Middleware("api", handler)
	}
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) recordRejected(reason string) {
	if rt.metrics != nil {
		rt.metrics.RecordRejected(reason)
	}
}

func (rt *Router) recordLetter(kind, action string) {
	if rt.metrics != nil {
		rt.metrics.RecordLetter(kind, action)
	}
}

func (rt *Router) recordVerification(verdict string, score int, degraded bool) {
	if rt.metrics != nil {
		rt.metrics.RecordVerification(verdict, score, degraded)
	}
}
