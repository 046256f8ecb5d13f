package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analyses     *prometheus.CounterVec
	fetchErrors  *prometheus.CounterVec
	predictedVol *prometheus.GaugeVec
	lastPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
	trainingRuns *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analyses: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskpulse_analyses_total",
				Help: "Total number of analysis requests by outcome",
			},
			[]string{"ticker", "outcome"},
		),
		fetchErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskpulse_fetch_errors_total",
				Help: "Total number of market data fetch errors",
			},
			[]string{"source"},
		),
		predictedVol: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riskpulse_predicted_volatility",
				Help: "Last predicted annualized volatility for a ticker",
			},
			[]string{"ticker"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "riskpulse_last_price",
				Help: "Last recorded price for a ticker",
			},
			[]string{"ticker"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "riskpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		trainingRuns: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "riskpulse_training_runs_total",
				Help: "Total number of model training runs by outcome",
			},
			[]string{"outcome"},
		),
	}
}

// RecordAnalysis records one analysis request and its outcome.
func (r *Recorder) RecordAnalysis(ticker, outcome string) {
	r.analyses.WithLabelValues(ticker, outcome).Inc()
}

// RecordFetchError records a market data fetch failure.
func (r *Recorder) RecordFetchError(source string) {
	r.fetchErrors.WithLabelValues(source).Inc()
}

// RecordPredictedVol records the latest model prediction for a ticker.
func (r *Recorder) RecordPredictedVol(ticker string, v float64) {
	r.predictedVol.WithLabelValues(ticker).Set(v)
}

// RecordLastPrice records the last price for a ticker.
func (r *Recorder) RecordLastPrice(ticker string, price float64) {
	r.lastPrice.WithLabelValues(ticker).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordTrainingRun records one training run by outcome.
func (r *Recorder) RecordTrainingRun(outcome string) {
	r.trainingRuns.WithLabelValues(outcome).Inc()
}
