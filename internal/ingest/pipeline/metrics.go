package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics are the only process-wide state in the package. They are
// registered once and written from Run; pipelines never read them back.
type metrics struct {
	documents    *prometheus.CounterVec
	failures     *prometheus.CounterVec
	transactions *prometheus.CounterVec
}

var sharedMetrics = &metrics{
	documents: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_ingest",
		Name:      "documents_total",
		Help:      "Documents submitted to the pipeline, by sniffed kind.",
	}, []string{"kind"}),
	failures: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_ingest",
		Name:      "failures_total",
		Help:      "Documents that ended in a hard failure, by sniffed kind.",
	}, []string{"kind"}),
	transactions: promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "statement_ingest",
		Name:      "transactions_total",
		Help:      "Transactions emitted, by producing chain.",
	}, []string{"source"}),
}
