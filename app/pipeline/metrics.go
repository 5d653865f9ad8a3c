package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "feedquiz"

// Metrics of the pipeline runs.
type Metrics struct {
	// FeedsValidated counts validated feeds by result ("valid", "invalid").
	FeedsValidated *prometheus.CounterVec
	// ArticlesExtracted counts articles extracted from feeds.
	ArticlesExtracted prometheus.Counter
	// ExtractFailures counts feeds which failed to fetch or parse.
	ExtractFailures prometheus.Counter
	// MCQsGenerated counts generation attempts by result ("ok", "failed").
	MCQsGenerated *prometheus.CounterVec
	// MCQsStored counts MCQs persisted to the store.
	MCQsStored prometheus.Counter
	// BatchSize observes the size of the batches handed to the store.
	BatchSize prometheus.Histogram
}

// NewMetrics registers pipeline metrics in reg. Nil reg makes metrics
// that are not exported anywhere.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FeedsValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feeds_validated_total",
			Help:      "Total number of validated feeds",
		}, []string{"result"}),
		ArticlesExtracted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_extracted_total",
			Help:      "Total number of articles extracted from feeds",
		}),
		ExtractFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extract_failures_total",
			Help:      "Total number of feeds that failed to be fetched or parsed",
		}),
		MCQsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mcqs_generated_total",
			Help:      "Total number of question generation attempts",
		}, []string{"result"}),
		MCQsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mcqs_stored_total",
			Help:      "Total number of questions persisted",
		}),
		BatchSize: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Distribution of batch sizes",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		}),
	}
}
