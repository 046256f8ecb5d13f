package marketdata

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"RiskPulse/internal/domain/models"
	apphttp "RiskPulse/pkg/http"
	"RiskPulse/pkg/logger"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// YahooSource fetches daily OHLCV history from the Yahoo Finance chart
// API. It implements repository.MarketDataSource.
type YahooSource struct {
	client         *apphttp.Client
	baseURL        string
	maxConcurrency int
	logger         *logger.Logger
}

type Option func(*YahooSource)

func WithBaseURL(u string) Option {
	return func(s *YahooSource) { s.baseURL = u }
}

func WithMaxConcurrency(n int) Option {
	return func(s *YahooSource) {
		if n > 0 {
			s.maxConcurrency = n
		}
	}
}

func NewYahooSource(client *apphttp.Client, l *logger.Logger, opts ...Option) *YahooSource {
	s := &YahooSource{
		client:         client,
		baseURL:        defaultBaseURL,
		maxConcurrency: 4,
		logger:         l,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// chartResponse mirrors the Yahoo v8 chart payload. Quote arrays may hold
// nulls for halted days, so values decode as pointers.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Fetch pulls the daily history for one ticker. Unknown tickers and empty
// windows come back as DataUnavailable; deadline expiry as UpstreamTimeout.
func (s *YahooSource) Fetch(ctx context.Context, ticker string, period models.Period) (models.PriceSeries, error) {
	var resp chartResponse
	err := s.client.SendAndParse(ctx, &apphttp.RequestOptions{
		Method: apphttp.MethodGet,
		URL:    fmt.Sprintf("%s/v8/finance/chart/%s", s.baseURL, url.PathEscape(ticker)),
		Headers: map[string]string{
			"User-Agent": "Mozilla/5.0",
		},
		QueryParams: map[string][]string{
			"range":    {string(period)},
			"interval": {"1d"},
		},
	}, &resp)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return models.PriceSeries{}, models.UpstreamTimeout("fetch "+ticker, err)
		}
		return models.PriceSeries{}, models.DataUnavailable("fetch %s: %v", ticker, err)
	}
	if resp.Chart.Error != nil {
		return models.PriceSeries{}, models.DataUnavailable(
			"provider rejected %s: %s", ticker, resp.Chart.Error.Description)
	}
	if len(resp.Chart.Result) == 0 || len(resp.Chart.Result[0].Timestamp) == 0 {
		return models.PriceSeries{}, models.DataUnavailable("no price history for %s", ticker)
	}

	result := resp.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return models.PriceSeries{}, models.DataUnavailable("no quote data for %s", ticker)
	}
	q := result.Indicators.Quote[0]

	series := models.PriceSeries{Ticker: ticker}
	for i, ts := range result.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue // halted or unpriced day
		}
		bar := models.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *q.Close[i],
		}
		if i < len(q.Open) && q.Open[i] != nil {
			bar.Open = *q.Open[i]
		}
		if i < len(q.High) && q.High[i] != nil {
			bar.High = *q.High[i]
		}
		if i < len(q.Low) && q.Low[i] != nil {
			bar.Low = *q.Low[i]
		}
		if i < len(q.Volume) && q.Volume[i] != nil {
			bar.Volume = *q.Volume[i]
		}
		series.Bars = append(series.Bars, bar)
	}
	if len(series.Bars) == 0 {
		return models.PriceSeries{}, models.DataUnavailable("all bars for %s were null", ticker)
	}
	sort.Slice(series.Bars, func(a, b int) bool {
		return series.Bars[a].Date.Before(series.Bars[b].Date)
	})
	return series, nil
}

// FetchBatch pulls several tickers with bounded concurrency. A ticker
// that fails is logged and skipped; the batch succeeds with what loaded.
func (s *YahooSource) FetchBatch(ctx context.Context, tickers []string, period models.Period) (map[string]models.PriceSeries, error) {
	out := make(map[string]models.PriceSeries, len(tickers))
	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, s.maxConcurrency)
	)
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			series, err := s.Fetch(ctx, ticker, period)
			if err != nil {
				s.logger.Warn("batch fetch skipped ticker",
					logger.String("ticker", ticker),
					logger.Error(err))
				return
			}
			mu.Lock()
			out[ticker] = series
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()
	if err := ctx.Err(); err != nil {
		return out, models.UpstreamTimeout("batch fetch", err)
	}
	return out, nil
}

// Quote returns the latest price and day change for one ticker, for the
// ticker strip.
func (s *YahooSource) Quote(ctx context.Context, ticker string) (models.Quote, error) {
	series, err := s.Fetch(ctx, ticker, models.Period2D)
	if err != nil {
		return models.Quote{}, err
	}
	last := series.LastClose()
	q := models.Quote{
		Name:  ticker,
		Value: fmt.Sprintf("%.2f", last),
		Price: last,
	}
	if series.Len() >= 2 {
		prev := series.Bars[series.Len()-2].Close
		if prev != 0 {
			pct := (last/prev - 1) * 100
			q.IsNegative = pct < 0
			q.Change = fmt.Sprintf("%+.2f%%", pct)
		}
	}
	return q, nil
}
