package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"SignalForge/internal/domain/models"
	domrepo "SignalForge/internal/domain/repository"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cycles            *prometheus.HistogramVec
	finalConfidence   *prometheus.GaugeVec
	finalDirection    *prometheus.GaugeVec
	signalsTotal      *prometheus.CounterVec
	indicatorFailures *prometheus.CounterVec
	missingTimeframes *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	httpLatency       *prometheus.HistogramVec
	httpErrors        *prometheus.CounterVec
}

var _ domrepo.Metrics = (*Recorder)(nil)

// New registers the collectors with the default registry.
func New() *Recorder { return NewWithRegistry(prometheus.DefaultRegisterer) }

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		cycles: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalforge_cycle_duration_seconds",
				Help:    "Duration of one full analysis cycle",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"symbol"},
		),
		finalConfidence: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalforge_final_confidence",
				Help: "Confidence of the latest final signal, in percent",
			},
			[]string{"symbol"},
		),
		finalDirection: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "signalforge_final_direction",
				Help: "Latest final direction: 1 long, -1 short, 0 neutral",
			},
			[]string{"symbol"},
		),
		signalsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalforge_final_signals_total",
				Help: "Final signals by direction",
			},
			[]string{"symbol", "direction"},
		),
		indicatorFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalforge_indicator_failures_total",
				Help: "Indicator computations degraded to NEUTRAL",
			},
			[]string{"timeframe", "indicator"},
		),
		missingTimeframes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalforge_missing_timeframes_total",
				Help: "Timeframes excluded from aggregation for lack of data",
			},
			[]string{"timeframe"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "signalforge_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "signalforge_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		httpLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "signalforge",
				Subsystem: "http",
				Name:      "latency_seconds",
				Help:      "Latency of API endpoints",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		httpErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "signalforge",
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Errors by API endpoint",
			},
			[]string{"endpoint"},
		),
	}
}

func (r *Recorder) RecordCycle(symbol string, seconds float64) {
	r.cycles.WithLabelValues(symbol).Observe(seconds)
}

// RecordFinalSignal exports the latest final signal of symbol.
func (r *Recorder) RecordFinalSignal(symbol string, f models.FinalSignal) {
	dir := 0.0
	switch f.Direction {
	case models.Long:
		dir = 1
	case models.Short:
		dir = -1
	}
	r.finalDirection.WithLabelValues(symbol).Set(dir)
	r.finalConfidence.WithLabelValues(symbol).Set(f.Confidence)
	r.signalsTotal.WithLabelValues(symbol, string(f.Direction)).Inc()
}

func (r *Recorder) RecordIndicatorFailure(timeframe, indicator string) {
	r.indicatorFailures.WithLabelValues(timeframe, indicator).Inc()
}

func (r *Recorder) RecordMissingTimeframe(timeframe string) {
	r.missingTimeframes.WithLabelValues(timeframe).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// ObserveHTTP records one API request.
func (r *Recorder) ObserveHTTP(endpoint string, seconds float64, failed bool) {
	r.httpLatency.WithLabelValues(endpoint).Observe(seconds)
	if failed {
		r.httpErrors.WithLabelValues(endpoint).Inc()
	}
}
