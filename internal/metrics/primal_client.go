package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	primalRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "primal_client",
		Name:      "requests_total",
		Help:      "Count of custodial ledger API requests.",
	}, []string{"operation", "status"})
	primalRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletmigrate",
		Subsystem: "primal_client",
		Name:      "request_duration_seconds",
		Help:      "Duration of custodial ledger API requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
)

// PrimalClient tracks metrics for calls to the custodial ledger API.
type PrimalClient struct{}

// NewPrimalClient constructs a metrics collector for custodial API calls.
func NewPrimalClient() *PrimalClient {
	return &PrimalClient{}
}

// Observe records a single API call outcome and duration.
func (m PrimalClient) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	primalRequestsTotal.WithLabelValues(operation, status).Inc()
	primalRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
