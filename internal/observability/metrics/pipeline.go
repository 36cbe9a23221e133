package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "petition"

// PipelineMetrics covers the document pipeline stages shared by the api and
// worker processes. It satisfies the observer hooks of the generation client
// and the text extractor.
type PipelineMetrics struct {
	service string

	generationTotal    *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	extractionTotal    *prometheus.CounterVec
	verificationTotal  *prometheus.CounterVec
	verificationScore  prometheus.Histogram
	lettersDrafted     *prometheus.CounterVec
}

func newPipelineMetrics(service string, registry *prometheus.Registry) *PipelineMetrics {
	generationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "calls_total",
			Help:      "Calls to the text-generation service by outcome.",
		},
		[]string{"service", "operation", "status"},
	)
	generationDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Text-generation call duration in seconds, retries included.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 15, 30, 60, 120},
		},
		[]string{"service", "operation"},
	)
	extractionTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "extraction",
			Name:      "documents_total",
			Help:      "Text extractions by source type and outcome.",
		},
		[]string{"service", "source_type", "outcome"},
	)
	verificationTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verification",
			Name:      "verdicts_total",
			Help:      "Authenticity verdicts by verdict and degraded flag.",
		},
		[]string{"service", "verdict", "degraded"},
	)
	verificationScore := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "verification",
			Name:        "confidence_score",
			Help:        "Distribution of authenticity confidence scores.",
			Buckets:     []float64{0, 40, 50, 60, 70, 80, 85, 90, 95, 99},
			ConstLabels: prometheus.Labels{"service": service},
		},
	)
	lettersDrafted := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "letters",
			Name:      "drafted_total",
			Help:      "Letters drafted or refined by kind and action.",
		},
		[]string{"service", "kind", "action"},
	)

	registry.MustRegister(
		generationTotal,
		generationDuration,
		extractionTotal,
		verificationTotal,
		verificationScore,
		lettersDrafted,
	)

	return &PipelineMetrics{
		service:            service,
		generationTotal:    generationTotal,
		generationDuration: generationDuration,
		extractionTotal:    extractionTotal,
		verificationTotal:  verificationTotal,
		verificationScore:  verificationScore,
		lettersDrafted:     lettersDrafted,
	}
}

func (m *PipelineMetrics) ObserveGeneration(operation, status string, duration time.Duration) {
	if status == "" {
		status = "unknown"
	}
	m.generationTotal.WithLabelValues(m.service, operation, status).Inc()
	m.generationDuration.WithLabelValues(m.service, operation).Observe(duration.Seconds())
}

func (m *PipelineMetrics) ObserveExtraction(sourceType, outcome string) {
	if sourceType == "" {
		sourceType = "unknown"
	}
	m.extractionTotal.WithLabelValues(m.service, sourceType, outcome).Inc()
}

func (m *PipelineMetrics) RecordVerification(verdict string, score int, degraded bool) {
	degradedLabel := "false"
	if degraded {
		degradedLabel = "true"
	}
	m.verificationTotal.WithLabelValues(m.service, verdict, degradedLabel).Inc()
	m.verificationScore.Observe(float64(score))
}

func (m *PipelineMetrics) RecordLetter(kind, action string) {
	m.lettersDrafted.WithLabelValues(m.service, kind, action).Inc()
}
