package repository

import (
	"context"

	"RiskPulse/internal/domain/models"
)

// UserStore manages account rows.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	ByUsername(ctx context.Context, username string) (*models.User, error)
	ByID(ctx context.Context, id uint) (*models.User, error)
	All(ctx context.Context) ([]models.User, error)
}

// WatchlistStore manages per-user watchlists.
type WatchlistStore interface {
	Add(ctx context.Context, userID uint, ticker string) error
	Remove(ctx context.Context, userID uint, ticker string) error
	Tickers(ctx context.Context, userID uint) ([]string, error)
}

// PortfolioStore manages per-user positions.
type PortfolioStore interface {
	Upsert(ctx context.Context, p *models.Position) error
	Remove(ctx context.Context, userID uint, ticker string) error
	Positions(ctx context.Context, userID uint) ([]models.Position, error)
}

// TradeLogStore persists signals and simulated executions.
type TradeLogStore interface {
	LogSignal(ctx context.Context, sig models.TradeSignal) error
	LogExecution(ctx context.Context, ex models.Execution) error
	SignalsForUser(ctx context.Context, userID uint, limit int) ([]models.TradeSignalRecord, error)
	ExecutionsForUser(ctx context.Context, userID uint, limit int) ([]models.ExecutionRecord, error)
}
