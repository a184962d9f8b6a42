package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	readsTotal   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	rowsReturned *prometheus.HistogramVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		readsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "famefeed_reads_total",
				Help: "Total number of series reads served",
			},
			[]string{"database", "backend"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "famefeed_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		rowsReturned: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "famefeed_rows_returned",
				Help:    "Rows returned per read",
				Buckets: []float64{1, 4, 8, 20, 40, 80, 200, 400},
			},
			[]string{"database"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "famefeed_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRead records one served read for a database.
func (r *Recorder) RecordRead(database, backend string) {
	r.readsTotal.WithLabelValues(database, backend).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRowsReturned records the row count of a read result.
func (r *Recorder) RecordRowsReturned(database string, rows int) {
	r.rowsReturned.WithLabelValues(database).Observe(float64(rows))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
