package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics records counters and latency for quote resolution.
type QuoteMetrics struct {
	duration *prometheus.HistogramVec
	resolved *prometheus.CounterVec
	failed   *prometheus.CounterVec
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_duration_seconds",
		Help:    "Duration of quote resolution in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"service"})
	resolved := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotes_resolved_total",
		Help: "Successfully resolved quotes.",
	}, []string{"service"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_failures_total",
		Help: "Quote resolutions that returned an error.",
	}, []string{"service", "reason"})
	reg.MustRegister(duration, resolved, failed)
	return &QuoteMetrics{
		duration: duration,
		resolved: resolved,
		failed:   failed,
	}
}

// ObserveDuration records the resolution duration for the named service.
func (q *QuoteMetrics) ObserveDuration(service string, duration time.Duration) {
	if q == nil || q.duration == nil {
		return
	}
	q.duration.WithLabelValues(normalizeLabel(service)).Observe(duration.Seconds())
}

// IncResolved increments the resolved counter for the named service.
func (q *QuoteMetrics) IncResolved(service string) {
	if q == nil || q.resolved == nil {
		return
	}
	q.resolved.WithLabelValues(normalizeLabel(service)).Inc()
}

// IncFailed increments the failure counter for the named service and reason.
func (q *QuoteMetrics) IncFailed(service, reason string) {
	if q == nil || q.failed == nil {
		return
	}
	q.failed.WithLabelValues(normalizeLabel(service), normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
