package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flush triggers.
const (
	TriggerBytes    = "bytes"
	TriggerRecords  = "records"
	TriggerInterval = "interval"
	TriggerManual   = "manual"
	TriggerClose    = "close"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Writer metrics
	RecordsPut       *prometheus.CounterVec
	RecordsRejected  *prometheus.CounterVec
	BufferSize       *prometheus.GaugeVec
	BufferRecords    *prometheus.GaugeVec
	Flushes          *prometheus.CounterVec
	FlushErrors      *prometheus.CounterVec
	ChunksDispatched *prometheus.CounterVec

	// Delivery metrics
	DeliveryAttempts *prometheus.CounterVec
	RecordsDelivered *prometheus.CounterVec
	RecordsFailed    *prometheus.CounterVec
	Retries          *prometheus.CounterVec
	ChunksExhausted  *prometheus.CounterVec
	CallDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		// Writer metrics
		RecordsPut: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_records_put_total",
				Help: "Total number of records accepted into the buffer",
			},
			[]string{"stream"},
		),
		RecordsRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_records_rejected_total",
				Help: "Total number of records rejected by Put",
			},
			[]string{"stream", "reason"},
		),
		BufferSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "firehose_writer_buffer_size_bytes",
				Help: "Current buffer size in bytes",
			},
			[]string{"stream"},
		),
		BufferRecords: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "firehose_writer_buffer_record_count",
				Help: "Current number of records in buffer",
			},
			[]string{"stream"},
		),
		Flushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_flushes_total",
				Help: "Total number of non-empty flushes",
			},
			[]string{"stream", "trigger"},
		),
		FlushErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_flush_errors_total",
				Help: "Total number of flushes with at least one undelivered chunk",
			},
			[]string{"stream", "trigger"},
		),
		ChunksDispatched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_chunks_dispatched_total",
				Help: "Total number of chunks handed to the delivery engine",
			},
			[]string{"stream"},
		),

		// Delivery metrics
		DeliveryAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_delivery_attempts_total",
				Help: "Total number of batch calls made",
			},
			[]string{"stream"},
		),
		RecordsDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_records_delivered_total",
				Help: "Total number of records acknowledged by the stream",
			},
			[]string{"stream"},
		),
		RecordsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_records_failed_total",
				Help: "Total number of per-record failures reported by the stream",
			},
			[]string{"stream"},
		),
		Retries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_retries_total",
				Help: "Total number of delivery retries",
			},
			[]string{"stream", "reason"},
		),
		ChunksExhausted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "firehose_writer_chunks_exhausted_total",
				Help: "Total number of chunks abandoned after exhausting retries",
			},
			[]string{"stream"},
		),
		CallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "firehose_writer_call_duration_seconds",
				Help:    "Latency of batch calls",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"stream"},
		),
	}
}

// IncRecordsPut increments records put counter.
func (m *Metrics) IncRecordsPut(stream string) {
	m.RecordsPut.WithLabelValues(stream).Inc()
}

// IncRecordsRejected increments records rejected counter.
func (m *Metrics) IncRecordsRejected(stream, reason string) {
	m.RecordsRejected.WithLabelValues(stream, reason).Inc()
}

// SetBuffer sets the buffer gauges.
func (m *Metrics) SetBuffer(stream string, records, bytes int) {
	m.BufferRecords.WithLabelValues(stream).Set(float64(records))
	m.BufferSize.WithLabelValues(stream).Set(float64(bytes))
}

// IncFlushes increments flushes counter.
func (m *Metrics) IncFlushes(stream, trigger string) {
	m.Flushes.WithLabelValues(stream, trigger).Inc()
}

// IncFlushErrors increments flush errors counter.
func (m *Metrics) IncFlushErrors(stream, trigger string) {
	m.FlushErrors.WithLabelValues(stream, trigger).Inc()
}

// AddChunksDispatched adds to the chunks dispatched counter.
func (m *Metrics) AddChunksDispatched(stream string, n int) {
	m.ChunksDispatched.WithLabelValues(stream).Add(float64(n))
}

// IncDeliveryAttempts increments delivery attempts counter.
func (m *Metrics) IncDeliveryAttempts(stream string) {
	m.DeliveryAttempts.WithLabelValues(stream).Inc()
}

// AddRecordsDelivered adds to the records delivered counter.
func (m *Metrics) AddRecordsDelivered(stream string, n int) {
	m.RecordsDelivered.WithLabelValues(stream).Add(float64(n))
}

// AddRecordsFailed adds to the records failed counter.
func (m *Metrics) AddRecordsFailed(stream string, n int) {
	m.RecordsFailed.WithLabelValues(stream).Add(float64(n))
}

// IncRetries increments retries counter.
func (m *Metrics) IncRetries(stream, reason string) {
	m.Retries.WithLabelValues(stream, reason).Inc()
}

// IncChunksExhausted increments chunks exhausted counter.
func (m *Metrics) IncChunksExhausted(stream string) {
	m.ChunksExhausted.WithLabelValues(stream).Inc()
}

// ObserveCallDuration observes batch call latency.
func (m *Metrics) ObserveCallDuration(stream string, duration float64) {
	m.CallDuration.WithLabelValues(stream).Observe(duration)
}
