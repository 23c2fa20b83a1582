// Package metrics provides Prometheus metrics for the similarity pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Scoring Metrics - the all-vs-all block phase
	cellsScored    prometheus.Counter
	scorerFailures prometheus.Counter
	blocksComputed prometheus.Counter
	blockLatency   prometheus.Histogram

	// Merge Metrics - directional hit-table merging
	recordsCollapsed prometheus.Counter
	recordsFiltered  prometheus.Counter
	recordsMerged    prometheus.Counter

	// Assignment Metrics - cost matrix and solver
	assignmentsChosen  prometheus.Counter
	assignmentsDropped prometheus.Counter
	matrixTransposed   prometheus.Counter
	solveLatency       prometheus.Histogram

	// Aggregation Metrics - group similarity
	groupPairsAggregated prometheus.Counter
	groupPairsSkipped    prometheus.Counter

	// Operational Health Metrics
	workerCount prometheus.Gauge
	taskCount   prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "groupsim",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.cellsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cells_scored_total",
		Help:      "Total number of pairwise score cells computed",
	})

	m.scorerFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "scorer_failures_total",
		Help:      "Total number of per-unit scorer failures (logged and skipped)",
	})

	m.blocksComputed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "blocks_computed_total",
		Help:      "Total number of row-by-column score blocks computed",
	})

	m.blockLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "block_latency_milliseconds",
		Help:      "Histogram of per-block scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.recordsCollapsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_collapsed_total",
		Help:      "Total number of hit records dropped by best-bitscore collapsing",
	})

	m.recordsFiltered = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_filtered_total",
		Help:      "Total number of hit records dropped by threshold filters",
	})

	m.recordsMerged = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "records_merged_total",
		Help:      "Total number of symmetric pair records produced by merging",
	})

	m.assignmentsChosen = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignments_chosen_total",
		Help:      "Total number of assignment pairs backed by observed records",
	})

	m.assignmentsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignments_dropped_total",
		Help:      "Total number of solver pairs dropped for lacking an observed record",
	})

	m.matrixTransposed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "cost_matrix_transposed_total",
		Help:      "Total number of solves that required transposing the cost matrix",
	})

	m.solveLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "solve_latency_milliseconds",
		Help:      "Histogram of assignment-solver latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.groupPairsAggregated = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "group_pairs_aggregated_total",
		Help:      "Total number of group pairs reduced to a similarity value",
	})

	m.groupPairsSkipped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "group_pairs_skipped_total",
		Help:      "Total number of group pairs skipped for missing data",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Number of workers participating in the current run",
	})

	m.taskCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "task_count",
		Help:      "Number of work units generated for the current run",
	})
}

// RecordCellsScored adds to the scored-cell counter.
func RecordCellsScored(n int) {
	globalManager.cellsScored.Add(float64(n))
}

// RecordScorerFailure increments the per-unit scorer failure counter.
func RecordScorerFailure() {
	globalManager.scorerFailures.Inc()
}

// RecordBlockComputed increments the block counter.
func RecordBlockComputed() {
	globalManager.blocksComputed.Inc()
}

// RecordBlockLatency records block scoring latency.
func RecordBlockLatency(latencyMs float64) {
	globalManager.blockLatency.Observe(latencyMs)
}

// RecordRecordsCollapsed adds to the collapsed-record counter.
func RecordRecordsCollapsed(n int) {
	globalManager.recordsCollapsed.Add(float64(n))
}

// RecordRecordsFiltered adds to the filtered-record counter.
func RecordRecordsFiltered(n int) {
	globalManager.recordsFiltered.Add(float64(n))
}

// RecordRecordsMerged adds to the merged-record counter.
func RecordRecordsMerged(n int) {
	globalManager.recordsMerged.Add(float64(n))
}

// RecordAssignmentsChosen adds to the chosen-assignment counter.
func RecordAssignmentsChosen(n int) {
	globalManager.assignmentsChosen.Add(float64(n))
}

// RecordAssignmentsDropped adds to the dropped-assignment counter.
func RecordAssignmentsDropped(n int) {
	globalManager.assignmentsDropped.Add(float64(n))
}

// RecordMatrixTransposed increments the transposed-solve counter.
func RecordMatrixTransposed() {
	globalManager.matrixTransposed.Inc()
}

// RecordSolveLatency records assignment-solver latency.
func RecordSolveLatency(latencyMs float64) {
	globalManager.solveLatency.Observe(latencyMs)
}

// RecordGroupPairAggregated increments the aggregated group-pair counter.
func RecordGroupPairAggregated() {
	globalManager.groupPairsAggregated.Inc()
}

// RecordGroupPairSkipped increments the skipped group-pair counter.
func RecordGroupPairSkipped() {
	globalManager.groupPairsSkipped.Inc()
}

// UpdateWorkerCount sets the worker gauge.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateTaskCount sets the task gauge.
func UpdateTaskCount(count int) {
	globalManager.taskCount.Set(float64(count))
}

// GetRegistry returns the custom registry used by the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
