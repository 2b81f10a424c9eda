package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global metrics instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the engine
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// Discovery metrics
	RelatedQueries  *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec
	ResultsReturned prometheus.Histogram

	// Graph metrics
	GraphsBuilt   prometheus.Counter
	GraphNodes    prometheus.Histogram
	GraphDuration prometheus.Histogram

	// Batch metrics
	BatchItems    *prometheus.CounterVec
	BatchDuration prometheus.Histogram

	// Enrichment metrics
	EnrichFailures prometheus.Counter
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Use singleton pattern to avoid duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	relatedQueries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "related_queries_total",
			Help:      "Total number of related-content queries",
		},
		[]string{"status"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "related_query_duration_seconds",
			Help:      "Related-content query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	resultsReturned := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "related_results_returned",
			Help:      "Number of results returned per related-content query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	graphsBuilt := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graphs_built_total",
			Help:      "Total number of visualization graphs built",
		},
	)

	graphNodes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Number of nodes per built graph",
			Buckets:   []float64{1, 5, 10, 25, 50, 100},
		},
	)

	graphDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_build_duration_seconds",
			Help:      "Graph build duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	batchItems := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "batch_items_total",
			Help:      "Total batch items by outcome",
		},
		[]string{"status"},
	)

	batchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "End-to-end batch processing duration in seconds",
			Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
	)

	enrichFailures := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "enrich_failures_total",
			Help:      "Candidates dropped because enrichment failed",
		},
	)

	registry.MustRegister(
		relatedQueries, queryDuration, resultsReturned,
		graphsBuilt, graphNodes, graphDuration,
		batchItems, batchDuration, enrichFailures,
	)

	globalCollector = &Collector{
		registry:        registry,
		RelatedQueries:  relatedQueries,
		QueryDuration:   queryDuration,
		ResultsReturned: resultsReturned,
		GraphsBuilt:     graphsBuilt,
		GraphNodes:      graphNodes,
		GraphDuration:   graphDuration,
		BatchItems:      batchItems,
		BatchDuration:   batchDuration,
		EnrichFailures:  enrichFailures,
	}

	return globalCollector
}

// Registry returns the underlying registry so a consumer process can
// expose it however it chooses
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveQuery records one related-content query outcome
func (c *Collector) ObserveQuery(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	c.RelatedQueries.WithLabelValues(status).Inc()
	c.QueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
