package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	"RiskPulse/internal/service/cache"
	"RiskPulse/pkg/logger"
)

// QuotesUseCase serves the ticker strip: latest price and day change for
// the configured symbols. Quotes are cached briefly since the strip is
// polled by every connected client.
type QuotesUseCase struct {
	source   domrepo.QuoteSource
	tickers  []string
	cache    cache.BytesCache
	cacheTTL time.Duration
	logger   *logger.Logger
}

func NewQuotesUseCase(source domrepo.QuoteSource, tickers []string, c cache.BytesCache, ttl time.Duration, l *logger.Logger) *QuotesUseCase {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &QuotesUseCase{source: source, tickers: tickers, cache: c, cacheTTL: ttl, logger: l}
}

const quotesCacheKey = "quotes:strip"

// Quotes returns one entry per configured ticker, in configured order.
// Tickers that fail to quote are dropped from the strip for this cycle.
func (uc *QuotesUseCase) Quotes(ctx context.Context) ([]models.Quote, error) {
	if uc.cache != nil {
		if b, ok, err := uc.cache.GetBytes(quotesCacheKey); err == nil && ok {
			var out []models.Quote
			if err := json.Unmarshal(b, &out); err == nil {
				return out, nil
			}
		}
	}

	results := make([]*models.Quote, len(uc.tickers))
	var wg sync.WaitGroup
	for i, ticker := range uc.tickers {
		wg.Add(1)
		go func(i int, ticker string) {
			defer wg.Done()
			q, err := uc.source.Quote(ctx, ticker)
			if err != nil {
				uc.logger.Debug("quote skipped",
					logger.String("ticker", ticker),
					logger.Error(err))
				return
			}
			results[i] = &q
		}(i, ticker)
	}
	wg.Wait()

	out := make([]models.Quote, 0, len(uc.tickers))
	for _, q := range results {
		if q != nil {
			out = append(out, *q)
		}
	}
	if len(out) == 0 {
		return nil, models.DataUnavailable("no quotes available")
	}

	if uc.cache != nil {
		if b, err := json.Marshal(out); err == nil {
			uc.cache.SetBytes(quotesCacheKey, b, uc.cacheTTL)
		}
	}
	return out, nil
}
