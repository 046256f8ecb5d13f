package usecase

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	domservice "RiskPulse/internal/domain/service"
	"RiskPulse/internal/service/cache"
	"RiskPulse/internal/services/features"
	"RiskPulse/internal/services/textgen"
	"RiskPulse/pkg/logger"
	"RiskPulse/pkg/util"
)

// AnalysisUseCase runs the full per-ticker risk analysis: fetch history,
// compute realized measures, score the volatility model, and enrich with
// generated commentary. Results are cached by ticker.
type AnalysisUseCase struct {
	source   domrepo.MarketDataSource
	model    domrepo.ModelStore
	textgen  domservice.TextGenerator
	cache    cache.BytesCache
	cacheTTL time.Duration
	metrics  domrepo.Metrics
	logger   *logger.Logger
}

func NewAnalysisUseCase(
	source domrepo.MarketDataSource,
	model domrepo.ModelStore,
	tg domservice.TextGenerator,
	c cache.BytesCache,
	cacheTTL time.Duration,
	m domrepo.Metrics,
	l *logger.Logger,
) *AnalysisUseCase {
	return &AnalysisUseCase{
		source:   source,
		model:    model,
		textgen:  tg,
		cache:    c,
		cacheTTL: cacheTTL,
		metrics:  m,
		logger:   l,
	}
}

// Analyze produces the analysis record for one ticker. WithSummary
// controls whether commentary is generated; the advisor path skips it
// and builds a combined narrative instead.
func (uc *AnalysisUseCase) Analyze(ctx context.Context, ticker string, withSummary bool) (*models.AnalysisResult, error) {
	start := time.Now()

	if cached, ok := uc.fromCache(ticker, withSummary); ok {
		uc.metrics.RecordAnalysis(ticker, "cache_hit")
		return cached, nil
	}

	series, err := uc.source.Fetch(ctx, ticker, models.Period1Y)
	if err != nil {
		uc.metrics.RecordAnalysis(ticker, "fetch_error")
		uc.metrics.RecordFetchError("yahoo")
		return nil, err
	}

	result, err := uc.analyzeSeries(series)
	if err != nil {
		uc.metrics.RecordAnalysis(ticker, "analysis_error")
		return nil, err
	}

	if withSummary {
		result.Summary = uc.summarize(ctx, result)
	}

	uc.toCache(result, withSummary)
	uc.metrics.RecordAnalysis(ticker, "ok")
	uc.metrics.RecordPredictedVol(ticker, result.PredictedVolatility)
	uc.metrics.RecordLastPrice(ticker, result.LastClosePrice)
	uc.metrics.RecordLatency("analyze", time.Since(start).Seconds())
	return result, nil
}

// analyzeSeries computes all numeric measures from a fetched history.
func (uc *AnalysisUseCase) analyzeSeries(series models.PriceSeries) (*models.AnalysisResult, error) {
	vector, err := features.Latest(series)
	if err != nil {
		return nil, err
	}
	predicted, err := uc.model.Predict(vector)
	if err != nil {
		return nil, err
	}

	returns := features.SimpleReturns(series.Closes())
	realized := features.AnnualizedVolatility(returns[1:])

	// Sharpe is undefined when realized volatility is zero. The JSON
	// field is null in that case rather than Inf or a fake zero.
	var sharpe *float64
	if realized != 0 && !math.IsNaN(realized) {
		annualReturn := features.MeanReturn(returns) * features.TradingDaysPerYear
		s := round2(annualReturn / realized)
		sharpe = &s
	}

	chart := models.ChartData{
		Labels: make([]string, series.Len()),
		Prices: make([]float64, series.Len()),
	}
	for i, b := range series.Bars {
		chart.Labels[i] = util.FormatDay(b.Date)
		chart.Prices[i] = round2(b.Close)
	}

	return &models.AnalysisResult{
		Ticker:               series.Ticker,
		LastClosePrice:       round2(series.LastClose()),
		HistoricalVolatility: round3(realized),
		SharpeRatio:          sharpe,
		PredictedVolatility:  round3(predicted),
		ChartData:            chart,
	}, nil
}

// summarize asks the text generator for commentary. Failure degrades to
// a placeholder; it never fails the analysis.
func (uc *AnalysisUseCase) summarize(ctx context.Context, r *models.AnalysisResult) string {
	if uc.textgen == nil {
		return textgen.SummaryUnavailable
	}
	text, err := uc.textgen.Generate(ctx, textgen.RiskSummaryPrompt(r))
	if err != nil {
		uc.logger.Warn("summary generation failed",
			logger.String("ticker", r.Ticker),
			logger.Error(err))
		return textgen.SummaryUnavailable
	}
	return text
}

func (uc *AnalysisUseCase) cacheKey(ticker string, withSummary bool) string {
	if withSummary {
		return "analysis:" + ticker + ":full"
	}
	return "analysis:" + ticker + ":bare"
}

func (uc *AnalysisUseCase) fromCache(ticker string, withSummary bool) (*models.AnalysisResult, bool) {
	if uc.cache == nil {
		return nil, false
	}
	b, ok, err := uc.cache.GetBytes(uc.cacheKey(ticker, withSummary))
	if err != nil || !ok {
		return nil, false
	}
	var r models.AnalysisResult
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, false
	}
	return &r, true
}

func (uc *AnalysisUseCase) toCache(r *models.AnalysisResult, withSummary bool) {
	if uc.cache == nil {
		return
	}
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	if err := uc.cache.SetBytes(uc.cacheKey(r.Ticker, withSummary), b, uc.cacheTTL); err != nil {
		uc.logger.Debug("analysis cache write failed",
			logger.String("ticker", r.Ticker),
			logger.Error(err))
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
