// Package metrics records Prometheus metrics for the relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"videorelay/internal/infra"
)

// Generation outcomes.
const (
	OutcomeSuccess          = "success"
	OutcomeValidation       = "validation"
	OutcomeRejected         = "rejected"
	OutcomeSubmissionFailed = "submission_failed"
	OutcomeJobFailed        = "job_failed"
	OutcomeTimeout          = "timeout"
	OutcomeCanceled         = "canceled"
	OutcomeError            = "error"
)

// Collector holds the relay metrics. A nil *Collector is valid and records
// nothing.
type Collector struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	generationInflight prometheus.Gauge
	pollsTotal         *prometheus.CounterVec

	gatherer prometheus.Gatherer
	logger   *infra.Logger
}

// NewCollector registers the relay metrics on reg. When reg is nil a fresh
// registry is used so repeated construction never panics on duplicate
// registration.
func NewCollector(namespace string, reg *prometheus.Registry, logger *infra.Logger) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = infra.NopLogger()
	}
	factory := promauto.With(reg)
	c := &Collector{gatherer: reg, logger: logger}

	c.httpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.httpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	c.generationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generations_total",
			Help:      "Total number of video generations by outcome",
		},
		[]string{"outcome"},
	)

	c.generationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "End-to-end video generation duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"outcome"},
	)

	c.generationInflight = factory.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "generations_inflight",
			Help:      "Number of generations currently waiting on the provider",
		},
	)

	c.pollsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_polls_total",
			Help:      "Total number of provider status polls by observed state",
		},
		[]string{"state"},
	)

	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		logger.Debug().Err(err).Msg("metrics: go collector not registered")
	}

	return c
}

// RecordHTTPRequest records one served HTTP request.
func (c *Collector) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordGeneration records the outcome of one generation.
func (c *Collector) RecordGeneration(outcome string, duration time.Duration) {
	if c == nil {
		return
	}
	c.generationsTotal.WithLabelValues(outcome).Inc()
	c.generationDuration.WithLabelValues(outcome).Observe(duration.Seconds())
}

// RecordPoll records one provider status poll.
func (c *Collector) RecordPoll(state string) {
	if c == nil {
		return
	}
	c.pollsTotal.WithLabelValues(state).Inc()
}

// GenerationStarted increments the in-flight gauge.
func (c *Collector) GenerationStarted() {
	if c == nil {
		return
	}
	c.generationInflight.Inc()
}

// GenerationFinished decrements the in-flight gauge.
func (c *Collector) GenerationFinished() {
	if c == nil {
		return
	}
	c.generationInflight.Dec()
}

// Handler exposes the collected metrics in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
