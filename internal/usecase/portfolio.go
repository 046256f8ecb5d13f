package usecase

import (
	"context"
	"math"
	"strings"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	"RiskPulse/pkg/logger"
)

// WatchlistUseCase manages a user's tracked tickers.
type WatchlistUseCase struct {
	store domrepo.WatchlistStore
}

func NewWatchlistUseCase(store domrepo.WatchlistStore) *WatchlistUseCase {
	return &WatchlistUseCase{store: store}
}

func (uc *WatchlistUseCase) Add(ctx context.Context, userID uint, ticker string) error {
	return uc.store.Add(ctx, userID, normalizeTicker(ticker))
}

func (uc *WatchlistUseCase) Remove(ctx context.Context, userID uint, ticker string) error {
	return uc.store.Remove(ctx, userID, normalizeTicker(ticker))
}

func (uc *WatchlistUseCase) Tickers(ctx context.Context, userID uint) ([]string, error) {
	return uc.store.Tickers(ctx, userID)
}

func normalizeTicker(t string) string {
	return strings.ToUpper(strings.TrimSpace(t))
}

// PortfolioUseCase manages positions and values them at current prices.
type PortfolioUseCase struct {
	store  domrepo.PortfolioStore
	source domrepo.MarketDataSource
	logger *logger.Logger
}

func NewPortfolioUseCase(store domrepo.PortfolioStore, source domrepo.MarketDataSource, l *logger.Logger) *PortfolioUseCase {
	return &PortfolioUseCase{store: store, source: source, logger: l}
}

// ValuedPosition is a position marked to the latest close.
type ValuedPosition struct {
	models.Position
	LastPrice     float64 `json:"lastPrice"`
	MarketValue   float64 `json:"marketValue"`
	UnrealizedPnL float64 `json:"unrealizedPnl"`
}

// PortfolioView is the per-user holdings summary.
type PortfolioView struct {
	Positions  []ValuedPosition `json:"positions"`
	TotalValue float64          `json:"totalValue"`
	TotalPnL   float64          `json:"totalPnl"`
}

func (uc *PortfolioUseCase) Upsert(ctx context.Context, userID uint, req *models.PositionRequest) error {
	return uc.store.Upsert(ctx, &models.Position{
		UserID:      userID,
		Ticker:      normalizeTicker(req.Ticker),
		Quantity:    req.Quantity,
		AvgBuyPrice: req.AvgBuyPrice,
	})
}

func (uc *PortfolioUseCase) Remove(ctx context.Context, userID uint, ticker string) error {
	return uc.store.Remove(ctx, userID, normalizeTicker(ticker))
}

// View returns all positions valued at the latest close. Positions whose
// price cannot be fetched are returned unvalued rather than dropped.
func (uc *PortfolioUseCase) View(ctx context.Context, userID uint) (*PortfolioView, error) {
	positions, err := uc.store.Positions(ctx, userID)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	prices := map[string]models.PriceSeries{}
	if len(tickers) > 0 {
		prices, err = uc.source.FetchBatch(ctx, tickers, models.Period1D)
		if err != nil {
			uc.logger.Warn("portfolio pricing incomplete", logger.Error(err))
		}
	}

	view := &PortfolioView{Positions: make([]ValuedPosition, 0, len(positions))}
	for _, p := range positions {
		vp := ValuedPosition{Position: p}
		if series, ok := prices[p.Ticker]; ok && series.Len() > 0 {
			vp.LastPrice = round2(series.LastClose())
			vp.MarketValue = round2(vp.LastPrice * float64(p.Quantity))
			vp.UnrealizedPnL = round2((vp.LastPrice - p.AvgBuyPrice) * float64(p.Quantity))
		}
		view.Positions = append(view.Positions, vp)
		view.TotalValue = round2(view.TotalValue + vp.MarketValue)
		view.TotalPnL = round2(view.TotalPnL + vp.UnrealizedPnL)
	}
	if math.IsNaN(view.TotalValue) {
		view.TotalValue = 0
	}
	return view, nil
}
