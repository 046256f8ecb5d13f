package features

import (
	"errors"
	"math"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
)

func seriesOf(closes []float64) models.PriceSeries {
	s := models.PriceSeries{Ticker: "TEST"}
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for _, c := range closes {
		s.Bars = append(s.Bars, models.PriceBar{Date: day, Close: c})
		day = day.AddDate(0, 0, 1)
	}
	return s
}

func constantCloses(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSimpleReturnsAlignment(t *testing.T) {
	r := SimpleReturns([]float64{100, 110, 99})
	if len(r) != 3 {
		t.Fatalf("expected 3 returns, got %d", len(r))
	}
	if !math.IsNaN(r[0]) {
		t.Fatalf("first return must be NaN, got %v", r[0])
	}
	if math.Abs(r[1]-0.10) > 1e-12 {
		t.Fatalf("unexpected return %v", r[1])
	}
	if math.Abs(r[2]-(-0.10)) > 1e-12 {
		t.Fatalf("unexpected return %v", r[2])
	}
}

func TestConstantSeriesHasZeroVolAndMomentum(t *testing.T) {
	s := seriesOf(constantCloses(100, 50))
	v, err := Latest(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, x := range v.Values() {
		if x != 0 {
			t.Fatalf("expected all-zero vector, got %+v", v)
		}
	}
}

func TestVectorUndefinedBeforeWarmup(t *testing.T) {
	s := seriesOf(constantCloses(100, 50))

	if _, err := Vector(s, LongWindow-1); !errors.Is(err, models.ErrFeatureUndefined) {
		t.Fatalf("expected feature-undefined at index %d, got %v", LongWindow-1, err)
	}
	if _, err := Vector(s, LongWindow); err != nil {
		t.Fatalf("vector must be defined at index %d: %v", LongWindow, err)
	}
}

func TestLatestRequiresMinBars(t *testing.T) {
	s := seriesOf(constantCloses(MinBars-1, 50))
	if _, err := Latest(s); !errors.Is(err, models.ErrFeatureUndefined) {
		t.Fatalf("expected feature-undefined for %d bars, got %v", MinBars-1, err)
	}
}

func TestMomentumFlatTail(t *testing.T) {
	// rising prices, then flat for more than a month: 1m momentum is zero
	closes := make([]float64, 0, 120)
	p := 100.0
	for i := 0; i < 90; i++ {
		p *= 1.01
		closes = append(closes, p)
	}
	for i := 0; i < 30; i++ {
		closes = append(closes, p)
	}
	s := seriesOf(closes)

	v, err := Latest(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(v.Momentum1m) > 1e-12 {
		t.Fatalf("expected zero 1m momentum on flat tail, got %v", v.Momentum1m)
	}
	if v.Momentum3m <= 0 {
		t.Fatalf("expected positive 3m momentum, got %v", v.Momentum3m)
	}
}

func TestDatasetSizeAndLabels(t *testing.T) {
	n := MinBars + LabelLookahead // smallest buildable series
	s := seriesOf(constantCloses(n, 50))

	ds, err := Dataset(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("expected exactly 1 sample from %d bars, got %d", n, ds.Len())
	}
	if ds.Y[0] != 0 {
		t.Fatalf("constant series must have zero-vol label, got %v", ds.Y[0])
	}

	short := seriesOf(constantCloses(n-1, 50))
	if _, err := Dataset(short); !errors.Is(err, models.ErrDataUnavailable) {
		t.Fatalf("expected data-unavailable for %d bars, got %v", n-1, err)
	}
}

func TestAnnualizedVolatilityScaling(t *testing.T) {
	// alternating +1%/-1% daily returns
	returns := make([]float64, 100)
	for i := range returns {
		if i%2 == 0 {
			returns[i] = 0.01
		} else {
			returns[i] = -0.01
		}
	}
	got := AnnualizedVolatility(returns)
	if got <= 0.01*math.Sqrt(TradingDaysPerYear)*0.9 {
		t.Fatalf("volatility not annualized: %v", got)
	}
}
