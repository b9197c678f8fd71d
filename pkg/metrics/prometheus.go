package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	classified     *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastAnnualized *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
	queueDepth     *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		classified: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divscope_classified_total",
				Help: "Total number of dividend events classified",
			},
			[]string{"engine", "ticker"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "divscope_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastAnnualized: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "divscope_last_annualized_dividend",
				Help: "Last computed annualized dividend for a ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "divscope_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		queueDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "divscope_queue_depth",
				Help: "Current depth of internal queues",
			},
			[]string{"queue"},
		),
	}
}

// RecordClassified records one classified dividend event.
func (r *Recorder) RecordClassified(engine, ticker string) {
	r.classified.WithLabelValues(engine, ticker).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastAnnualized records the latest annualized dividend for a ticker.
func (r *Recorder) RecordLastAnnualized(ticker string, amount float64) {
	r.lastAnnualized.WithLabelValues(ticker).Set(amount)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordQueueDepth records the current depth of an internal queue.
func (r *Recorder) RecordQueueDepth(queue string, depth float64) {
	r.queueDepth.WithLabelValues(queue).Set(depth)
}
