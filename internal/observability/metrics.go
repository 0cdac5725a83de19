package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	inferenceDuration     *prometheus.HistogramVec
	inferenceFailures     *prometheus.CounterVec
	fallbackQuestions     *prometheus.CounterVec
	transparencyScoreHist prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transparency",
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "transparency",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution for HTTP requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"method", "route"})

		inferenceDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "transparency",
			Subsystem: "inference",
			Name:      "duration_seconds",
			Help:      "Duration of single text generation calls.",
		}, []string{"provider", "model"})

		inferenceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transparency",
			Subsystem: "inference",
			Name:      "failures_total",
			Help:      "Number of failed text generation calls.",
		}, []string{"provider", "model"})

		fallbackQuestions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "transparency",
			Subsystem: "questions",
			Name:      "fallback_total",
			Help:      "Number of fallback questions used to pad generation results.",
		}, []string{"mode"})

		transparencyScoreHist = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "transparency",
			Subsystem: "scorer",
			Name:      "score",
			Help:      "Distribution of computed transparency scores.",
			Buckets:   prometheus.LinearBuckets(0, 1, 11),
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			inferenceDuration,
			inferenceFailures,
			fallbackQuestions,
			transparencyScoreHist,
		)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// InferenceDuration exposes the generation latency histogram.
func InferenceDuration() *prometheus.HistogramVec {
	RegisterMetrics()
	return inferenceDuration
}

// InferenceFailures exposes the generation failure counter.
func InferenceFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return inferenceFailures
}

// FallbackQuestions exposes the fallback padding counter.
func FallbackQuestions() *prometheus.CounterVec {
	RegisterMetrics()
	return fallbackQuestions
}

// TransparencyScores exposes the score histogram.
func TransparencyScores() prometheus.Histogram {
	RegisterMetrics()
	return transparencyScoreHist
}
