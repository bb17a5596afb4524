package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the digest pipeline. Counters
// and histograms are registered through promauto against the given
// registerer.
type Metrics struct {
	// RunsStarted counts the pipeline runs initiated.
	RunsStarted prometheus.Counter

	// RunsCompleted counts the pipeline runs that finished successfully.
	RunsCompleted prometheus.Counter

	// RunsFailed counts the pipeline runs that ended in failure.
	RunsFailed prometheus.Counter

	// RunDuration observes the end-to-end duration of runs in seconds.
	RunDuration prometheus.Histogram

	// PapersFetched counts papers fetched, labeled by source.
	PapersFetched *prometheus.CounterVec

	// PapersRanked counts papers that made the final ranked set.
	PapersRanked prometheus.Counter

	// EnrichmentFailures counts citation lookups that degraded to zero counts.
	EnrichmentFailures prometheus.Counter

	// SummariesGenerated counts successful summarization calls.
	SummariesGenerated prometheus.Counter

	// SummariesFailed counts summarization calls that failed.
	SummariesFailed prometheus.Counter

	// PDFsSaved counts PDFs archived to disk.
	PDFsSaved prometheus.Counter

	// EmailsSent counts digest emails delivered.
	EmailsSent prometheus.Counter
}

// NewMetrics creates a Metrics instance registered with reg. Pass nil to use
// the default Prometheus registerer.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		RunsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_started_total",
			Help:      "Total number of digest runs started",
		}),
		RunsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_completed_total",
			Help:      "Total number of digest runs completed successfully",
		}),
		RunsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_failed_total",
			Help:      "Total number of digest runs that failed",
		}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of digest runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),
		PapersFetched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_fetched_total",
			Help:      "Total number of papers fetched by source",
		}, []string{"source"}),
		PapersRanked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "papers_ranked_total",
			Help:      "Total number of papers in final ranked sets",
		}),
		EnrichmentFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrichment_failures_total",
			Help:      "Total number of citation lookups that degraded to zero counts",
		}),
		SummariesGenerated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_generated_total",
			Help:      "Total number of paper summaries generated",
		}),
		SummariesFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_failed_total",
			Help:      "Total number of summarization calls that failed",
		}),
		PDFsSaved: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pdfs_saved_total",
			Help:      "Total number of PDFs archived to disk",
		}),
		EmailsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "emails_sent_total",
			Help:      "Total number of digest emails sent",
		}),
	}
}
