package printing

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the print pipeline.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	renderDuration *prometheus.HistogramVec
	attempts       *prometheus.CounterVec
	jobs           *prometheus.CounterVec
	cleanups       *prometheus.CounterVec
}

// NewMetrics registers the print pipeline collectors with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		renderDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "printer_render_duration_seconds",
				Help:    "Duration of HTML to PDF rendering in seconds",
				Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"outcome"},
		),
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "printer_delivery_attempts_total",
				Help: "Total number of delivery method attempts",
			},
			[]string{"method", "outcome"},
		),
		jobs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "printer_jobs_total",
				Help: "Total number of print and render jobs by result",
			},
			[]string{"kind", "outcome"},
		),
		cleanups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "printer_scratch_cleanups_total",
				Help: "Total number of scratch file deletions",
			},
			[]string{"outcome"},
		),
	}
}

// ObserveRender records one render
func (m *Metrics) ObserveRender(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// IncAttempt records one delivery method attempt
func (m *Metrics) IncAttempt(method, outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(method, outcome).Inc()
}

// IncJob records a finished job. kind is "print" or "render", outcome is
// "success" or an error code.
func (m *Metrics) IncJob(kind, outcome string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(kind, outcome).Inc()
}

// IncCleanup records a scratch file deletion
func (m *Metrics) IncCleanup(outcome string) {
	if m == nil {
		return
	}
	m.cleanups.WithLabelValues(outcome).Inc()
}
