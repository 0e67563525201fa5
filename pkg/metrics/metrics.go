package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dxforge/dxmachine/pkg/arena"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds the Prometheus metrics for the serialization engine's
// operational surfaces: arena pool traffic, codec throughput, and store
// operations. The core engine stays metrics-free; callers observe it from
// the outside through these.
type Metrics struct {
	// Arena pool metrics
	poolAcquiresTotal *prometheus.CounterVec
	poolIdleArenas    prometheus.Gauge

	// Compression metrics
	compressOpsTotal   *prometheus.CounterVec
	compressBytesTotal *prometheus.CounterVec
	compressionRatio   *prometheus.HistogramVec

	// Store operation metrics
	storeOperationsTotal   *prometheus.CounterVec
	storeOperationDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all engine metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		poolAcquiresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dx_pool_acquires_total",
				Help: "Total number of arena pool acquires",
			},
			[]string{"outcome"},
		),

		poolIdleArenas: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "dx_pool_idle_arenas",
				Help: "Number of arenas currently idle in the pool",
			},
		),

		compressOpsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dx_compress_operations_total",
				Help: "Total number of compression and decompression operations",
			},
			[]string{"codec", "operation", "status"},
		),

		compressBytesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dx_compress_bytes_total",
				Help: "Total bytes flowing through codecs",
			},
			[]string{"codec", "direction"},
		),

		compressionRatio: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dx_compression_ratio",
				Help:    "Compressed size divided by original size",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 0.75, 0.9, 1.0, 1.1},
			},
			[]string{"codec"},
		),

		storeOperationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dx_store_operations_total",
				Help: "Total number of record store operations",
			},
			[]string{"operation", "status"},
		),

		storeOperationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dx_store_operation_duration_seconds",
				Help:    "Record store operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	return m
}

// UpdatePoolStats publishes a pool stats snapshot.
func (m *Metrics) UpdatePoolStats(s arena.PoolStats) {
	m.poolIdleArenas.Set(float64(s.Idle))
}

// RecordAcquire records one pool acquire.
func (m *Metrics) RecordAcquire(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	m.poolAcquiresTotal.WithLabelValues(outcome).Inc()
}

// RecordCompression records one successful compression.
func (m *Metrics) RecordCompression(codec string, originalSize, compressedSize int) {
	m.compressOpsTotal.WithLabelValues(codec, "compress", statusSuccess).Inc()
	m.compressBytesTotal.WithLabelValues(codec, "in").Add(float64(originalSize))
	m.compressBytesTotal.WithLabelValues(codec, "out").Add(float64(compressedSize))
	if originalSize > 0 {
		m.compressionRatio.WithLabelValues(codec).Observe(float64(compressedSize) / float64(originalSize))
	}
}

// RecordDecompression records one decompression attempt.
func (m *Metrics) RecordDecompression(codec string, success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.compressOpsTotal.WithLabelValues(codec, "decompress", status).Inc()
}

// RecordStoreOperation records one record store operation.
func (m *Metrics) RecordStoreOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.storeOperationsTotal.WithLabelValues(operation, status).Inc()
	m.storeOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
