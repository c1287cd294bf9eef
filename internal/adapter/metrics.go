package adapter

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	m "gooze.dev/pkg/playground/internal/model"
)

const (
	metricsNamespace = "playground"
	compileSubsystem = "compile"
	mutantSubsystem  = "mutant"
)

// Metrics records compile, rollback and mutant outcomes.
type Metrics interface {
	ObserveCompile(success bool, duration time.Duration)
	ObserveRollback(removed int, anomalies []m.EscalationAnomaly)
	ObserveMutant(result m.MutantResult)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) ObserveCompile(bool, time.Duration)         {}
func (NopMetrics) ObserveRollback(int, []m.EscalationAnomaly) {}
func (NopMetrics) ObserveMutant(m.MutantResult)               {}

// PrometheusMetrics keeps playground metrics in a private registry that can
// be exported as a node-exporter textfile.
type PrometheusMetrics struct {
	registry *prometheus.Registry

	compileTotal    *prometheus.CounterVec
	compileDuration prometheus.Histogram
	rolledBack      prometheus.Counter
	escalations     *prometheus.CounterVec
	mutantsTotal    *prometheus.CounterVec
}

// NewPrometheusMetrics registers the playground metrics in a new registry.
func NewPrometheusMetrics() *PrometheusMetrics {
	pm := &PrometheusMetrics{
		registry: prometheus.NewRegistry(),
		compileTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: compileSubsystem,
			Name:      "attempts_total",
			Help:      "Compile calls by outcome",
		}, []string{"result"}),
		compileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: compileSubsystem,
			Name:      "duration_seconds",
			Help:      "Duration of a compile call in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		rolledBack: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: compileSubsystem,
			Name:      "rolled_back_mutations_total",
			Help:      "Mutations removed because they broke the build",
		}),
		escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: compileSubsystem,
			Name:      "escalations_total",
			Help:      "Rollback passes that escalated, by mode",
		}, []string{"mode"}),
		mutantsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: mutantSubsystem,
			Name:      "results_total",
			Help:      "Mutant outcomes by status",
		}, []string{"status"}),
	}

	pm.registry.MustRegister(pm.compileTotal, pm.compileDuration, pm.rolledBack, pm.escalations, pm.mutantsTotal)

	return pm
}

// ObserveCompile implements Metrics.
func (pm *PrometheusMetrics) ObserveCompile(success bool, duration time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}

	pm.compileTotal.WithLabelValues(result).Inc()
	pm.compileDuration.Observe(duration.Seconds())
}

// ObserveRollback implements Metrics.
func (pm *PrometheusMetrics) ObserveRollback(removed int, anomalies []m.EscalationAnomaly) {
	pm.rolledBack.Add(float64(removed))

	for _, anomaly := range anomalies {
		pm.escalations.WithLabelValues(string(anomaly.Mode)).Inc()
	}
}

// ObserveMutant implements Metrics.
func (pm *PrometheusMetrics) ObserveMutant(result m.MutantResult) {
	pm.mutantsTotal.WithLabelValues(result.Status.String()).Inc()
}

// Registry returns the registry holding the metrics.
func (pm *PrometheusMetrics) Registry() *prometheus.Registry {
	return pm.registry
}

// WriteTextfile exports the metrics in the text exposition format.
func (pm *PrometheusMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, pm.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}

	return nil
}
