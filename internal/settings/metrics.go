package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opGet      = "get"
	opUpdate   = "update"
	opRollback = "rollback"
	opHistory  = "history"
)

var (
	operations = promauto.NewCounterVec( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "settings_operations_total",
			Help: "Number of settings operations, differentiated by operation and result.",
		},
		[]string{"operation", "result"},
	)

	historyFailures = promauto.NewCounter( //nolint:gochecknoglobals
		prometheus.CounterOpts{
			Name: "settings_history_append_failures_total",
			Help: "Number of applied settings changes whose history entry could not be written.",
		},
	)
)

func observe(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	operations.WithLabelValues(operation, result).Inc()
}
