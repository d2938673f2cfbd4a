package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	storeOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "store",
		Name:      "operations_total",
		Help:      "Count of local store operations.",
	}, []string{"operation", "driver", "status"})
	storeOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletmigrate",
		Subsystem: "store",
		Name:      "operation_duration_seconds",
		Help:      "Duration of local store operations.",
		Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
	}, []string{"operation", "driver", "status"})
)

// Store tracks metrics for local wallet store operations.
type Store struct {
	driver string
}

// NewStore creates a Store metrics collector labeled with the SQL driver.
func NewStore(driver string) *Store {
	if driver == "" {
		driver = "unknown"
	}
	return &Store{driver: driver}
}

// Observe records duration and status of a store operation.
func (m Store) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	storeOperationsTotal.WithLabelValues(operation, m.driver, status).Inc()
	storeOperationDuration.WithLabelValues(operation, m.driver, status).Observe(time.Since(started).Seconds())
}
