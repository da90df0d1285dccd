package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	metricsOnce sync.Once //nolint:gochecknoglobals

	// statements counts log statements per level.
	statements *prometheus.CounterVec //nolint:gochecknoglobals

	// shipFailures counts entries a remote sink dropped or could not deliver.
	shipFailures *prometheus.CounterVec //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per level.
type PrometheusHook struct{}

// Run implements zerolog.Hook.
func (h PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level != zerolog.NoLevel {
		statements.WithLabelValues(level.String()).Inc()
	}
}

// NewPrometheusHook registers the logger metrics on first use and returns the hook.
// The service label is fixed by the first call.
func NewPrometheusHook(serviceName string) PrometheusHook {
	registerMetrics(serviceName)

	return PrometheusHook{}
}

func registerMetrics(serviceName string) {
	metricsOnce.Do(func() {
		labels := prometheus.Labels{"service": serviceName}

		statements = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_statements_total",
				Help:        "Number of log statements, differentiated by log level.",
				ConstLabels: labels,
			},
			[]string{"level"},
		)

		shipFailures = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "log_ship_failures_total",
				Help:        "Number of log entries a remote sink dropped or failed to deliver.",
				ConstLabels: labels,
			},
			[]string{"sink", "reason"},
		)
	})
}

func countShipFailure(sink, reason string) {
	registerMetrics("")
	shipFailures.WithLabelValues(sink, reason).Inc()
}
