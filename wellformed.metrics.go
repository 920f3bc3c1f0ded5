package wellformed

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names
const (
	MetricValidationsTotal = "wellformed_validations_total"
	MetricInputBytes       = "wellformed_input_bytes"
	MetricReportsStored    = "wellformed_reports_stored_total"
	MetricLabelOutcome     = "outcome"
)

// Metric help strings
const (
	MetricHelpValidations   = "Validations performed, by outcome."
	MetricHelpInputBytes    = "Size in bytes of validated inputs."
	MetricHelpReportsStored = "Validation reports persisted to storage."
)

// Metrics collects validation metrics on a private registry, so several
// servers in one process do not collide on the global one.
type Metrics struct {
	registry      *prometheus.Registry
	validations   *prometheus.CounterVec
	inputBytes    prometheus.Histogram
	reportsStored prometheus.Counter
}

// NewMetrics creates the validation metrics and registers them along with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: MetricValidationsTotal,
			Help: MetricHelpValidations,
		}, []string{MetricLabelOutcome}),
		inputBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricInputBytes,
			Help:    MetricHelpInputBytes,
			Buckets: prometheus.ExponentialBuckets(64, 4, 10),
		}),
		reportsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricReportsStored,
			Help: MetricHelpReportsStored,
		}),
	}

	m.registry.MustRegister(
		m.validations,
		m.inputBytes,
		m.reportsStored,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Pre-create every outcome series so dashboards see zeros.
	for _, outcome := range Outcomes() {
		m.validations.WithLabelValues(string(outcome))
	}
	return m
}

// ObserveReport records one validation.
func (m *Metrics) ObserveReport(report *Report) {
	m.validations.WithLabelValues(string(report.Outcome)).Inc()
	if report.Outcome != OutcomeInputType {
		m.inputBytes.Observe(float64(report.InputSize))
	}
}

// ObserveStored records one persisted report.
func (m *Metrics) ObserveStored() {
	m.reportsStored.Inc()
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
