package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/service/cache"
	"RiskPulse/internal/services/textgen"
	"RiskPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

type fakeSource struct {
	series  map[string]models.PriceSeries
	fetches int
}

func (f *fakeSource) Fetch(_ context.Context, ticker string, _ models.Period) (models.PriceSeries, error) {
	f.fetches++
	s, ok := f.series[ticker]
	if !ok {
		return models.PriceSeries{}, models.DataUnavailable("no data for %s", ticker)
	}
	return s, nil
}

func (f *fakeSource) FetchBatch(ctx context.Context, tickers []string, period models.Period) (map[string]models.PriceSeries, error) {
	out := make(map[string]models.PriceSeries)
	for _, tk := range tickers {
		if s, err := f.Fetch(ctx, tk, period); err == nil {
			out[tk] = s
		}
	}
	return out, nil
}

type fakeModel struct {
	value float64
	err   error
}

func (f *fakeModel) Reload() error { return nil }
func (f *fakeModel) Ready() bool   { return f.err == nil }
func (f *fakeModel) Predict(models.FeatureVector) (float64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.value, nil
}

type fakeTextGen struct {
	text string
	err  error
}

func (f *fakeTextGen) Generate(context.Context, string) (string, error) {
	return f.text, f.err
}

type nopMetrics struct{}

func (nopMetrics) RecordAnalysis(string, string)      {}
func (nopMetrics) RecordFetchError(string)            {}
func (nopMetrics) RecordPredictedVol(string, float64) {}
func (nopMetrics) RecordLastPrice(string, float64)    {}
func (nopMetrics) RecordLatency(string, float64)      {}
func (nopMetrics) RecordTrainingRun(string)           {}

func flatSeries(ticker string, n int, price float64) models.PriceSeries {
	s := models.PriceSeries{Ticker: ticker}
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		s.Bars = append(s.Bars, models.PriceBar{Date: day, Close: price})
		day = day.AddDate(0, 0, 1)
	}
	return s
}

func newTestAnalysis(src *fakeSource, m *fakeModel, tg *fakeTextGen, t *testing.T) *AnalysisUseCase {
	uc := NewAnalysisUseCase(src, m, nil, cache.NewTTLCache(), time.Minute, nopMetrics{}, testLogger(t))
	if tg != nil {
		uc.textgen = tg
	}
	return uc
}

func TestAnalyzeUnknownTicker(t *testing.T) {
	src := &fakeSource{series: map[string]models.PriceSeries{}}
	uc := newTestAnalysis(src, &fakeModel{value: 0.3}, nil, t)

	_, err := uc.Analyze(context.Background(), "NOPE", true)
	if models.KindOf(err) != models.KindDataUnavailable {
		t.Fatalf("expected data-unavailable, got %v", err)
	}
}

func TestAnalyzeFlatSeries(t *testing.T) {
	src := &fakeSource{series: map[string]models.PriceSeries{
		"SPY": flatSeries("SPY", 250, 100),
	}}
	uc := newTestAnalysis(src, &fakeModel{value: 0.31449}, &fakeTextGen{err: errors.New("quota")}, t)

	r, err := uc.Analyze(context.Background(), "SPY", true)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if r.Ticker != "SPY" || r.LastClosePrice != 100 {
		t.Fatalf("unexpected result header: %+v", r)
	}
	if r.HistoricalVolatility != 0 {
		t.Fatalf("flat series realized vol = %v, want 0", r.HistoricalVolatility)
	}
	if r.SharpeRatio != nil {
		t.Fatalf("sharpe must be nil when realized vol is zero, got %v", *r.SharpeRatio)
	}
	// predicted vol rounds to 3 decimals
	if r.PredictedVolatility != 0.314 {
		t.Fatalf("predicted vol = %v, want 0.314", r.PredictedVolatility)
	}
	if r.Summary != textgen.SummaryUnavailable {
		t.Fatalf("failed generation must degrade to placeholder, got %q", r.Summary)
	}
	if len(r.ChartData.Labels) != 250 || len(r.ChartData.Prices) != 250 {
		t.Fatalf("chart must cover the full series")
	}
	if r.ChartData.Labels[0] != "2024-01-02" {
		t.Fatalf("chart label = %q, want 2024-01-02", r.ChartData.Labels[0])
	}
}

func TestAnalyzeModelUnavailable(t *testing.T) {
	src := &fakeSource{series: map[string]models.PriceSeries{
		"SPY": flatSeries("SPY", 250, 100),
	}}
	uc := newTestAnalysis(src, &fakeModel{err: models.ErrModelUnavailable}, nil, t)

	_, err := uc.Analyze(context.Background(), "SPY", false)
	if models.KindOf(err) != models.KindModelUnavailable {
		t.Fatalf("expected model-unavailable, got %v", err)
	}
}

func TestAnalyzeCachesByTicker(t *testing.T) {
	src := &fakeSource{series: map[string]models.PriceSeries{
		"SPY": flatSeries("SPY", 250, 100),
	}}
	uc := newTestAnalysis(src, &fakeModel{value: 0.3}, nil, t)

	if _, err := uc.Analyze(context.Background(), "SPY", false); err != nil {
		t.Fatalf("first analyze: %v", err)
	}
	if _, err := uc.Analyze(context.Background(), "SPY", false); err != nil {
		t.Fatalf("second analyze: %v", err)
	}
	if src.fetches != 1 {
		t.Fatalf("second call must be served from cache, saw %d fetches", src.fetches)
	}

	// the summary variant is cached under its own key
	if _, err := uc.Analyze(context.Background(), "SPY", true); err != nil {
		t.Fatalf("summary analyze: %v", err)
	}
	if src.fetches != 2 {
		t.Fatalf("summary variant must fetch separately, saw %d fetches", src.fetches)
	}
}
