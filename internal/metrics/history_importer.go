package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	historyPageTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "history_importer",
		Name:      "page_total",
		Help:      "Count of fetched history pages.",
	}, []string{"mode", "status"})

	historyPageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletmigrate",
		Subsystem: "history_importer",
		Name:      "page_duration_seconds",
		Help:      "Duration of fetching and storing one history page.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode", "status"})

	historyImportedTransactions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "history_importer",
		Name:      "imported_transactions_total",
		Help:      "Count of transactions written to local storage.",
	}, []string{"mode"})

	historyImportTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "walletmigrate",
		Subsystem: "history_importer",
		Name:      "import_total",
		Help:      "Count of import runs by result.",
	}, []string{"mode", "status", "complete"})

	historyImportPages = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "walletmigrate",
		Subsystem: "history_importer",
		Name:      "import_pages",
		Help:      "Number of pages processed per import run.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"mode"})
)

// HistoryImporter tracks metrics of history imports. Mode separates the
// bounded foreground import from background resumes.
type HistoryImporter struct {
	mode string
}

func NewHistoryImporter(mode string) *HistoryImporter {
	if mode == "" {
		mode = "unknown"
	}
	return &HistoryImporter{mode: mode}
}

func (m HistoryImporter) ObservePage(err error, transactions int, started time.Time) {
	status := statusOf(err)
	historyPageTotal.WithLabelValues(m.mode, status).Inc()
	historyPageDuration.WithLabelValues(m.mode, status).Observe(time.Since(started).Seconds())
	if err == nil {
		historyImportedTransactions.WithLabelValues(m.mode).Add(float64(transactions))
	}
}

func (m HistoryImporter) ObserveImport(err error, pages int, complete bool) {
	done := "false"
	if complete {
		done = "true"
	}
	historyImportTotal.WithLabelValues(m.mode, statusOf(err), done).Inc()
	historyImportPages.WithLabelValues(m.mode).Observe(float64(pages))
}
