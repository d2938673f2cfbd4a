package metrics

import (
	"time"

	"github.com/goodnatureofminers/walletmigrate-backend/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	migrationStepTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "orchestrator",
		Name:      "step_total",
		Help:      "Count of executed migration steps.",
	}, []string{"step", "status"})

	migrationStepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletmigrate",
		Subsystem: "orchestrator",
		Name:      "step_duration_seconds",
		Help:      "Duration of a single migration step.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 45, 60, 120},
	}, []string{"step", "status"})

	migrationRollbackTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "orchestrator",
		Name:      "rollback_total",
		Help:      "Count of wallet registration rollbacks.",
	}, []string{"status"})

	migrationTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "orchestrator",
		Name:      "migrations_total",
		Help:      "Count of migration attempts by outcome and last step.",
	}, []string{"status", "step"})

	migrationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletmigrate",
		Subsystem: "orchestrator",
		Name:      "migration_duration_seconds",
		Help:      "Duration of whole migration attempts.",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	}, []string{"status"})
)

// MigrationOrchestrator records metrics of migration sagas.
type MigrationOrchestrator struct{}

// NewMigrationOrchestrator constructs a MigrationOrchestrator metrics collector.
func NewMigrationOrchestrator() *MigrationOrchestrator {
	return &MigrationOrchestrator{}
}

func (m MigrationOrchestrator) ObserveStep(step model.MigrationStep, err error, started time.Time) {
	status := statusOf(err)
	migrationStepTotal.WithLabelValues(step.String(), status).Inc()
	migrationStepDuration.WithLabelValues(step.String(), status).Observe(time.Since(started).Seconds())
}

func (m MigrationOrchestrator) ObserveRollback(err error) {
	migrationRollbackTotal.WithLabelValues(statusOf(err)).Inc()
}

func (m MigrationOrchestrator) ObserveMigration(step model.MigrationStep, err error, started time.Time) {
	status := statusOf(err)
	migrationTotal.WithLabelValues(status, step.String()).Inc()
	migrationDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
