package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scansTotal     prometheus.Counter
	universeSize   prometheus.Gauge
	liquidSymbols  prometheus.Gauge
	evaluatedTotal prometheus.Counter
	signalsEmitted prometheus.Counter
	symbolErrors   *prometheus.CounterVec
	signalConf     *prometheus.GaugeVec
	fetchDuration  *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scansTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pdmscan_scans_total",
				Help: "Total number of universe scans completed",
			},
		),
		universeSize: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pdmscan_scan_universe_size",
				Help: "Symbols in the universe at last scan",
			},
		),
		liquidSymbols: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pdmscan_scan_liquid_symbols",
				Help: "Symbols that passed the liquidity filter at last scan",
			},
		),
		evaluatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pdmscan_symbols_evaluated_total",
				Help: "Total number of per-symbol evaluations",
			},
		),
		signalsEmitted: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pdmscan_signals_emitted_total",
				Help: "Total number of LONG signals emitted by scans",
			},
		),
		symbolErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pdmscan_symbol_errors_total",
				Help: "Per-symbol evaluation failures by kind",
			},
			[]string{"kind"},
		),
		signalConf: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pdmscan_signal_confidence",
				Help: "Confidence score of the last signal per symbol",
			},
			[]string{"symbol"},
		),
		fetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pdmscan_operation_duration_seconds",
				Help:    "Duration of provider and engine operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordScan records scan-level aggregates.
func (r *Recorder) RecordScan(universe, liquid, evaluated, signals int) {
	r.scansTotal.Inc()
	r.universeSize.Set(float64(universe))
	r.liquidSymbols.Set(float64(liquid))
	r.evaluatedTotal.Add(float64(evaluated))
	r.signalsEmitted.Add(float64(signals))
}

// RecordSymbolError records a per-symbol evaluation failure.
func (r *Recorder) RecordSymbolError(kind string) {
	r.symbolErrors.WithLabelValues(kind).Inc()
}

// RecordSignal records the confidence of an emitted signal.
func (r *Recorder) RecordSignal(symbol string, confidence float64) {
	r.signalConf.WithLabelValues(symbol).Set(confidence)
}

// RecordFetchLatency records operation latency in seconds.
func (r *Recorder) RecordFetchLatency(op string, seconds float64) {
	r.fetchDuration.WithLabelValues(op).Observe(seconds)
}
