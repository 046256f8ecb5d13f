package usecase

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"RiskPulse/internal/domain/models"
	domrepo "RiskPulse/internal/domain/repository"
	"RiskPulse/pkg/logger"
)

// BotConfig holds the decision thresholds for the trading bot.
type BotConfig struct {
	BuyThreshold  float64 // predicted vol at or below this is a buy
	SellThreshold float64 // predicted vol at or above this is a sell
	OrderSize     int     // simulated shares per order
}

// BotUseCase is the scheduled auto-trader. For every opted-in user it
// scores each watched ticker with the volatility model and emits a
// structured signal. Decisions come from model numbers only; generated
// text is never parsed for trading intent. Executions are simulated
// against the user's stored positions.
type BotUseCase struct {
	analysis  *AnalysisUseCase
	users     domrepo.UserStore
	watchlist domrepo.WatchlistStore
	portfolio domrepo.PortfolioStore
	tradeLog  domrepo.TradeLogStore
	publisher domrepo.SignalPublisher
	cfg       BotConfig
	logger    *logger.Logger
}

func NewBotUseCase(
	analysis *AnalysisUseCase,
	users domrepo.UserStore,
	watchlist domrepo.WatchlistStore,
	portfolio domrepo.PortfolioStore,
	tradeLog domrepo.TradeLogStore,
	publisher domrepo.SignalPublisher,
	cfg BotConfig,
	l *logger.Logger,
) *BotUseCase {
	if cfg.BuyThreshold <= 0 {
		cfg.BuyThreshold = 0.20
	}
	if cfg.SellThreshold <= cfg.BuyThreshold {
		cfg.SellThreshold = cfg.BuyThreshold * 2
	}
	if cfg.OrderSize <= 0 {
		cfg.OrderSize = 10
	}
	return &BotUseCase{
		analysis:  analysis,
		users:     users,
		watchlist: watchlist,
		portfolio: portfolio,
		tradeLog:  tradeLog,
		publisher: publisher,
		cfg:       cfg,
		logger:    l,
	}
}

// RunCycle executes one full bot pass over all opted-in users. Errors on
// individual tickers are logged and skipped so one bad symbol cannot
// stall the cycle.
func (uc *BotUseCase) RunCycle(ctx context.Context) error {
	users, err := uc.users.All(ctx)
	if err != nil {
		return err
	}
	for _, u := range users {
		if !u.AutoTradeAllowed {
			continue
		}
		if err := uc.runForUser(ctx, u); err != nil {
			uc.logger.Error("bot cycle failed for user",
				logger.Uint("user_id", u.ID),
				logger.Error(err))
		}
	}
	return nil
}

func (uc *BotUseCase) runForUser(ctx context.Context, u models.User) error {
	tickers, err := uc.watchlist.Tickers(ctx, u.ID)
	if err != nil {
		return err
	}
	positions, err := uc.portfolio.Positions(ctx, u.ID)
	if err != nil {
		return err
	}
	held := make(map[string]models.Position, len(positions))
	for _, p := range positions {
		held[p.Ticker] = p
		if !contains(tickers, p.Ticker) {
			tickers = append(tickers, p.Ticker)
		}
	}

	for _, ticker := range tickers {
		result, err := uc.analysis.Analyze(ctx, ticker, false)
		if err != nil {
			uc.logger.Warn("bot skipped ticker",
				logger.Uint("user_id", u.ID),
				logger.String("ticker", ticker),
				logger.Error(err))
			continue
		}
		pos, holding := held[ticker]
		sig := uc.decide(u.ID, result, holding)

		if err := uc.tradeLog.LogSignal(ctx, sig); err != nil {
			uc.logger.Error("signal log failed", logger.Error(err))
		}
		if err := uc.publisher.Publish(ctx, sig); err != nil {
			uc.logger.Warn("signal publish failed",
				logger.String("ticker", ticker),
				logger.Error(err))
		}
		uc.execute(ctx, sig, result, pos, holding)
	}
	return nil
}

// decide maps model output to a structured signal. Low predicted
// volatility is a buy, high is a sell when a position is held, everything
// between is a hold.
func (uc *BotUseCase) decide(userID uint, r *models.AnalysisResult, holding bool) models.TradeSignal {
	sig := models.TradeSignal{
		ID:        uuid.NewString(),
		UserID:    userID,
		Ticker:    r.Ticker,
		Action:    models.ActionHold,
		CreatedAt: time.Now().UTC(),
	}
	pred := r.PredictedVolatility
	switch {
	case pred >= uc.cfg.SellThreshold && holding:
		sig.Action = models.ActionSell
		sig.Confidence = confidence(pred, uc.cfg.SellThreshold)
	case pred <= uc.cfg.BuyThreshold:
		sig.Action = models.ActionBuy
		sig.Confidence = confidence(uc.cfg.BuyThreshold, pred)
	default:
		sig.Confidence = 0.5
	}
	return sig
}

// confidence grows with the distance past the threshold, capped at 1.
func confidence(a, b float64) float64 {
	if a <= 0 {
		return 0.5
	}
	c := 0.5 + math.Abs(a-b)/a
	return math.Round(math.Min(c, 1)*100) / 100
}

// execute applies a simulated fill at the last close and updates the
// stored position.
func (uc *BotUseCase) execute(ctx context.Context, sig models.TradeSignal, r *models.AnalysisResult, pos models.Position, holding bool) {
	switch sig.Action {
	case models.ActionBuy:
		qty := uc.cfg.OrderSize
		avg := r.LastClosePrice
		if holding {
			total := float64(pos.Quantity)*pos.AvgBuyPrice + float64(qty)*r.LastClosePrice
			qty += pos.Quantity
			avg = round2(total / float64(qty))
		}
		if err := uc.portfolio.Upsert(ctx, &models.Position{
			UserID:      sig.UserID,
			Ticker:      sig.Ticker,
			Quantity:    qty,
			AvgBuyPrice: avg,
		}); err != nil {
			uc.logger.Error("simulated buy failed", logger.Error(err))
			return
		}
		uc.logExecution(ctx, sig, uc.cfg.OrderSize, r.LastClosePrice)

	case models.ActionSell:
		if !holding {
			return
		}
		if err := uc.portfolio.Remove(ctx, sig.UserID, sig.Ticker); err != nil {
			uc.logger.Error("simulated sell failed", logger.Error(err))
			return
		}
		uc.logExecution(ctx, sig, pos.Quantity, r.LastClosePrice)
	}
}

func (uc *BotUseCase) logExecution(ctx context.Context, sig models.TradeSignal, qty int, price float64) {
	ex := models.Execution{
		ID:        uuid.NewString(),
		UserID:    sig.UserID,
		Ticker:    sig.Ticker,
		Action:    sig.Action,
		Quantity:  qty,
		Price:     price,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.tradeLog.LogExecution(ctx, ex); err != nil {
		uc.logger.Error("execution log failed", logger.Error(err))
		return
	}
	uc.logger.Info("simulated trade executed",
		logger.Uint("user_id", ex.UserID),
		logger.String("ticker", ex.Ticker),
		logger.String("action", string(ex.Action)),
		logger.Int("quantity", ex.Quantity),
		logger.Any("price", ex.Price))
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
