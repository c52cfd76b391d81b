// Package metrics provides Prometheus metrics for the theme file storage layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Planning metrics
	batchesPlanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestore_batches_planned_total",
			Help: "Total number of read batches planned",
		},
		[]string{"phase"},
	)

	batchKeys = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "themestore_batch_keys",
			Help:    "Number of keys per planned read batch",
			Buckets: []float64{1, 5, 10, 25, 50, 75, 100},
		},
	)

	// Store I/O metrics
	storeReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestore_store_batch_reads_total",
			Help: "Total batch reads issued against the store",
		},
		[]string{"flavor", "status"},
	)

	storeWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestore_store_writes_total",
			Help: "Total single-key writes issued against the store",
		},
		[]string{"flavor", "status"},
	)

	bytesWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "themestore_bytes_written_total",
			Help: "Total file bytes written to the store",
		},
	)

	// Outcome metrics
	filesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestore_files_skipped_total",
			Help: "Files not written by PutFiles",
		},
		[]string{"cause"},
	)

	fileWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestore_file_warnings_total",
			Help: "Size validation warnings by reason",
		},
		[]string{"reason"},
	)

	getFilesHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestore_get_files_total",
			Help: "Files requested through GetFiles by result",
		},
		[]string{"result"},
	)

	operationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "themestore_operation_duration_seconds",
			Help:    "GetFiles / PutFiles duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// RPC metrics
	rpcDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "themestore_grpc_request_duration_seconds",
			Help:    "gRPC request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "code"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordBatchPlan records the batches produced by one planning pass.
func RecordBatchPlan(phase string, keysPerBatch []int) {
	batchesPlanned.WithLabelValues(phase).Add(float64(len(keysPerBatch)))
	for _, n := range keysPerBatch {
		batchKeys.Observe(float64(n))
	}
}

// RecordStoreRead records one batch read.
func RecordStoreRead(flavor string, err error) {
	storeReadsTotal.WithLabelValues(flavor, statusLabel(err)).Inc()
}

// RecordStoreWrite records one single-key write.
func RecordStoreWrite(flavor string, size int, err error) {
	storeWritesTotal.WithLabelValues(flavor, statusLabel(err)).Inc()
	if err == nil {
		bytesWritten.Add(float64(size))
	}
}

// RecordSkipped records files skipped by PutFiles.
// cause: "missing_data", "rejected", "existing"
func RecordSkipped(cause string, n int) {
	if n > 0 {
		filesSkippedTotal.WithLabelValues(cause).Add(float64(n))
	}
}

// RecordWarning records a size validation warning.
func RecordWarning(reason string) {
	fileWarningsTotal.WithLabelValues(reason).Inc()
}

// RecordGetFiles records hit/miss counts of one GetFiles call.
func RecordGetFiles(hits, misses int) {
	getFilesHits.WithLabelValues("hit").Add(float64(hits))
	getFilesHits.WithLabelValues("miss").Add(float64(misses))
}

// RecordOperation records the duration of a public operation.
func RecordOperation(operation string, duration time.Duration, err error) {
	operationDuration.WithLabelValues(operation, statusLabel(err)).Observe(duration.Seconds())
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRPC records one unary gRPC call.
func RecordRPC(method, code string, duration time.Duration) {
	rpcDuration.WithLabelValues(method, code).Observe(duration.Seconds())
}
