package models

import "time"

// PriceBar is one daily OHLCV record. Immutable once fetched.
type PriceBar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is the ordered daily history for one ticker,
// strictly increasing by date, one bar per trading day.
type PriceSeries struct {
	Ticker string
	Bars   []PriceBar
}

// Len returns the number of bars.
func (s PriceSeries) Len() int { return len(s.Bars) }

// Closes returns the close prices in chronological order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// LastClose returns the most recent close price, or 0 for an empty series.
func (s PriceSeries) LastClose() float64 {
	if len(s.Bars) == 0 {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// Period is a lookback window accepted by the market data provider.
type Period string

const (
	Period1D  Period = "1d"
	Period2D  Period = "2d"
	Period1M  Period = "1mo"
	Period3M  Period = "3mo"
	Period6M  Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	Period15Y Period = "15y"
)

// ApproxDays returns the approximate calendar-day span of a period.
func (p Period) ApproxDays() int {
	switch p {
	case Period1D:
		return 1
	case Period2D:
		return 2
	case Period1M:
		return 31
	case Period3M:
		return 93
	case Period6M:
		return 186
	case Period1Y:
		return 366
	case Period2Y:
		return 732
	case Period5Y:
		return 1830
	case Period10Y:
		return 3660
	case Period15Y:
		return 5490
	default:
		return 366
	}
}
