// Package metrics exposes Prometheus collectors for the gateway.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the VoxGuard gateway.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPErrors          *prometheus.CounterVec

	// Analysis outcome metrics
	Analyses         *prometheus.CounterVec
	AnalysisFailures *prometheus.CounterVec
	AudioBytes       prometheus.Histogram

	// Provider call metrics
	ProviderRequests prometheus.Counter
	ProviderErrors   *prometheus.CounterVec
	ProviderDuration prometheus.Histogram
}

// NewMetrics creates all metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxguard_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "endpoint", "status_code"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "voxguard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"method", "endpoint"}),
		HTTPErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxguard_http_errors_total",
			Help: "Total number of HTTP responses with status >= 400",
		}, []string{"method", "endpoint", "error_type"}),

		Analyses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxguard_analyses_total",
			Help: "Total number of successful analyses by classification",
		}, []string{"classification"}),
		AnalysisFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxguard_analysis_failures_total",
			Help: "Total number of failed analyses by error kind",
		}, []string{"kind"}),
		AudioBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxguard_audio_bytes",
			Help:    "Size of decoded audio clips in bytes",
			Buckets: prometheus.ExponentialBuckets(16*1024, 4, 8),
		}),

		ProviderRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "voxguard_provider_requests_total",
			Help: "Total number of inference provider calls",
		}),
		ProviderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "voxguard_provider_errors_total",
			Help: "Total number of failed provider calls by error class",
		}, []string{"class"}),
		ProviderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voxguard_provider_request_duration_seconds",
			Help:    "Inference provider call duration in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}),
	}
}

// RecordHTTPRequest records an HTTP request metric
func (m *Metrics) RecordHTTPRequest(method, endpoint, statusCode string, duration float64) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, endpoint, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}

// RecordHTTPError records an HTTP error metric
func (m *Metrics) RecordHTTPError(method, endpoint, errorType string) {
	if m == nil {
		return
	}
	m.HTTPErrors.WithLabelValues(method, endpoint, errorType).Inc()
}

// RecordAnalysis records a successful verdict
func (m *Metrics) RecordAnalysis(classification string) {
	if m == nil {
		return
	}
	m.Analyses.WithLabelValues(classification).Inc()
}

// RecordAnalysisFailure records a failed analysis by error kind
func (m *Metrics) RecordAnalysisFailure(kind string) {
	if m == nil {
		return
	}
	m.AnalysisFailures.WithLabelValues(kind).Inc()
}

// RecordAudioSize records the decoded clip size
func (m *Metrics) RecordAudioSize(bytes int) {
	if m == nil {
		return
	}
	m.AudioBytes.Observe(float64(bytes))
}

// RecordProviderCall records one provider round trip
func (m *Metrics) RecordProviderCall(duration time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.Inc()
	m.ProviderDuration.Observe(duration.Seconds())
}

// RecordProviderError records a failed provider call by error class
func (m *Metrics) RecordProviderError(class string) {
	if m == nil {
		return
	}
	m.ProviderErrors.WithLabelValues(class).Inc()
}
