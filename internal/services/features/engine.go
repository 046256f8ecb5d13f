package features

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"RiskPulse/internal/domain/models"
)

// Rolling windows of the feature contract, in trading days. These values
// are baked into the persisted model artifact: changing them breaks every
// previously trained model, so they are constants, not configuration.
const (
	ShortWindow        = 21
	LongWindow         = 63
	LabelLookahead     = 5
	TradingDaysPerYear = 252
)

// MinBars is the shortest series for which the latest feature vector is
// defined: LongWindow trailing returns need LongWindow+1 closes.
const MinBars = LongWindow + 1

// SimpleReturns computes daily simple returns r_i = close_i/close_{i-1} - 1.
// The result is aligned to bar indices: out[i] is the return of bar i, and
// out[0] is NaN because bar 0 has no predecessor.
func SimpleReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) > 0 {
		out[0] = math.NaN()
	}
	for i := 1; i < len(closes); i++ {
		out[i] = closes[i]/closes[i-1] - 1
	}
	return out
}

// AnnualizedVolatility returns the sample standard deviation of the given
// returns scaled by sqrt(252). NaN entries are not tolerated by callers;
// windows are sliced so they never include the leading NaN.
func AnnualizedVolatility(returns []float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}
	return stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear)
}

// rollingVol is the trailing annualized volatility at bar t over `window`
// returns (bars t-window+1 .. t). Undefined (NaN) when the series is too
// short.
func rollingVol(returns []float64, t, window int) float64 {
	lo := t - window + 1
	if lo < 1 || t >= len(returns) {
		return math.NaN()
	}
	return AnnualizedVolatility(returns[lo : t+1])
}

// momentum is the trailing percentage price change over `lag` bars.
func momentum(closes []float64, t, lag int) float64 {
	if t-lag < 0 || t >= len(closes) {
		return math.NaN()
	}
	return closes[t]/closes[t-lag] - 1
}

// Vector computes the feature vector for bar index t. It fails with
// FeatureUndefined when fewer than LongWindow trailing returns exist,
// mirroring the training-time row exclusion exactly.
func Vector(series models.PriceSeries, t int) (models.FeatureVector, error) {
	if t < 0 || t >= series.Len() {
		return models.FeatureVector{}, models.FeatureUndefined("bar index %d out of range for %d bars", t, series.Len())
	}
	if t < LongWindow {
		return models.FeatureVector{}, models.FeatureUndefined(
			"need %d trailing bars at index %d, have %d", LongWindow, t, t)
	}
	closes := series.Closes()
	returns := SimpleReturns(closes)
	v := models.FeatureVector{
		Vol21d:     rollingVol(returns, t, ShortWindow),
		Vol63d:     rollingVol(returns, t, LongWindow),
		Momentum1m: momentum(closes, t, ShortWindow),
		Momentum3m: momentum(closes, t, LongWindow),
	}
	if !v.IsFinite() {
		return models.FeatureVector{}, models.FeatureUndefined("undefined feature at bar index %d", t)
	}
	return v, nil
}

// Latest computes the feature vector for the most recent bar.
func Latest(series models.PriceSeries) (models.FeatureVector, error) {
	if series.Len() < MinBars {
		return models.FeatureVector{}, models.FeatureUndefined(
			"need at least %d bars, have %d", MinBars, series.Len())
	}
	return Vector(series, series.Len()-1)
}

// Dataset builds the training set: one (vector, label) pair per bar from
// index LongWindow up to the last bar with a defined 5-day-ahead label.
// The label is vol_21d measured LabelLookahead trading days after the
// feature day.
func Dataset(series models.PriceSeries) (models.TrainingDataset, error) {
	n := series.Len()
	if n < MinBars+LabelLookahead {
		return models.TrainingDataset{}, models.DataUnavailable(
			"need at least %d bars to build a training set, have %d", MinBars+LabelLookahead, n)
	}
	closes := series.Closes()
	returns := SimpleReturns(closes)

	var ds models.TrainingDataset
	for t := LongWindow; t+LabelLookahead < n; t++ {
		v := models.FeatureVector{
			Vol21d:     rollingVol(returns, t, ShortWindow),
			Vol63d:     rollingVol(returns, t, LongWindow),
			Momentum1m: momentum(closes, t, ShortWindow),
			Momentum3m: momentum(closes, t, LongWindow),
		}
		label := rollingVol(returns, t+LabelLookahead, ShortWindow)
		if !v.IsFinite() || math.IsNaN(label) || math.IsInf(label, 0) {
			continue
		}
		ds.X = append(ds.X, v)
		ds.Y = append(ds.Y, label)
	}
	if ds.Len() == 0 {
		return models.TrainingDataset{}, models.DataUnavailable("no valid training rows after exclusions")
	}
	return ds, nil
}

// MeanReturn is the arithmetic mean of the defined (non-NaN) daily returns.
func MeanReturn(returns []float64) float64 {
	if len(returns) < 2 {
		return math.NaN()
	}
	return stat.Mean(returns[1:], nil)
}
