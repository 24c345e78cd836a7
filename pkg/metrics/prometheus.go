package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	refreshesTotal *prometheus.CounterVec
	providerErrors *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	probabilityUp  *prometheus.GaugeVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		refreshesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solpulse_refreshes_total",
				Help: "Total number of prediction refresh cycles by outcome",
			},
			[]string{"source", "result"},
		),
		providerErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "solpulse_provider_errors_total",
				Help: "Total number of market data provider errors",
			},
			[]string{"kind"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solpulse_last_price",
				Help: "Last fetched price for an asset",
			},
			[]string{"asset"},
		),
		probabilityUp: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "solpulse_probability_up",
				Help: "Latest probability-of-up per horizon",
			},
			[]string{"asset", "horizon"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "solpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRefresh records a completed refresh cycle.
func (r *Recorder) RecordRefresh(source, result string) {
	r.refreshesTotal.WithLabelValues(source, result).Inc()
}

// RecordError records a provider error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.providerErrors.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last price for an asset.
func (r *Recorder) RecordLastPrice(asset string, price float64) {
	r.lastPrice.WithLabelValues(asset).Set(price)
}

// RecordProbability records the latest probability-of-up for a horizon.
func (r *Recorder) RecordProbability(asset, horizon string, p float64) {
	r.probabilityUp.WithLabelValues(asset, horizon).Set(p)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
