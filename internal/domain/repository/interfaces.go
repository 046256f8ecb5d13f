package repository

import (
	"context"

	"RiskPulse/internal/domain/models"
)

// MarketDataSource fetches historical daily bars from a market data provider.
type MarketDataSource interface {
	// Fetch returns the daily history for one ticker over the lookback
	// period. Unknown tickers and empty windows fail with DataUnavailable.
	Fetch(ctx context.Context, ticker string, period models.Period) (models.PriceSeries, error)

	// FetchBatch pulls several tickers with bounded concurrency. Tickers
	// that fail are absent from the result; the batch itself never fails
	// because of one ticker.
	FetchBatch(ctx context.Context, tickers []string, period models.Period) (map[string]models.PriceSeries, error)
}

// QuoteSource serves latest-price quotes for the ticker strip.
type QuoteSource interface {
	Quote(ctx context.Context, ticker string) (models.Quote, error)
}

// ModelStore owns the persisted volatility model artifact. A store with
// no valid artifact stays degraded: Predict fails fast with
// ModelUnavailable until a Reload succeeds.
type ModelStore interface {
	// Reload swaps in a freshly trained artifact atomically.
	Reload() error

	// Predict applies scaler and regressor to one feature vector.
	Predict(v models.FeatureVector) (float64, error)

	// Ready reports whether an artifact is loaded.
	Ready() bool
}

// BarArchive is the long-term daily bar store. The trainer reads from it
// when it holds more history than the provider window.
type BarArchive interface {
	Init(ctx context.Context) error
	StoreBars(ctx context.Context, series models.PriceSeries) error
	LoadBars(ctx context.Context, ticker string, limit int) (models.PriceSeries, error)
	Health(ctx context.Context) error
	Close() error
}

// SignalPublisher emits structured trade-signal events to the event bus.
type SignalPublisher interface {
	Publish(ctx context.Context, sig models.TradeSignal) error
	Close() error
}

// SignalArchive stores trade-signal events consumed off the bus.
type SignalArchive interface {
	Store(ctx context.Context, sig models.TradeSignal) error
}

// Metrics records operational measurements.
type Metrics interface {
	RecordAnalysis(ticker, outcome string)
	RecordFetchError(source string)
	RecordPredictedVol(ticker string, v float64)
	RecordLastPrice(ticker string, price float64)
	RecordLatency(op string, seconds float64)
	RecordTrainingRun(outcome string)
}
