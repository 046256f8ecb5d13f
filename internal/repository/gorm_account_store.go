package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"RiskPulse/internal/domain/models"
)

// AccountDB bundles the relational stores for users, watchlists,
// portfolios and trade logs on one Postgres connection.
type AccountDB struct {
	db *gorm.DB
}

// ErrNotFound is returned when a relational lookup misses.
var ErrNotFound = errors.New("record not found")

// gormConfig is shared by the real connection and tests. TranslateError
// must stay on: the idempotent watchlist add relies on driver unique
// violations surfacing as gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	}
}

func NewAccountDB(dsn string) (*AccountDB, error) {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &AccountDB{db: db}, nil
}

// Migrate creates or updates the relational schema.
func (a *AccountDB) Migrate() error {
	return a.db.AutoMigrate(
		&models.User{},
		&models.WatchlistItem{},
		&models.Position{},
		&models.TradeSignalRecord{},
		&models.ExecutionRecord{},
	)
}

func (a *AccountDB) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Users returns the user store view.
func (a *AccountDB) Users() *GormUserStore { return &GormUserStore{db: a.db} }

// Watchlists returns the watchlist store view.
func (a *AccountDB) Watchlists() *GormWatchlistStore { return &GormWatchlistStore{db: a.db} }

// Portfolios returns the portfolio store view.
func (a *AccountDB) Portfolios() *GormPortfolioStore { return &GormPortfolioStore{db: a.db} }

// TradeLogs returns the trade log store view.
func (a *AccountDB) TradeLogs() *GormTradeLogStore { return &GormTradeLogStore{db: a.db} }

// GormUserStore implements repository.UserStore.
type GormUserStore struct {
	db *gorm.DB
}

func (s *GormUserStore) Create(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *GormUserStore) ByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) ByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *GormUserStore) All(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GormWatchlistStore implements repository.WatchlistStore.
type GormWatchlistStore struct {
	db *gorm.DB
}

func (s *GormWatchlistStore) Add(ctx context.Context, userID uint, ticker string) error {
	item := models.WatchlistItem{UserID: userID, Ticker: ticker}
	err := s.db.WithContext(ctx).Create(&item).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil // already on the list
	}
	return err
}

func (s *GormWatchlistStore) Remove(ctx context.Context, userID uint, ticker string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Delete(&models.WatchlistItem{}).Error
}

func (s *GormWatchlistStore) Tickers(ctx context.Context, userID uint) ([]string, error) {
	var tickers []string
	err := s.db.WithContext(ctx).
		Model(&models.WatchlistItem{}).
		Where("user_id = ?", userID).
		Order("ticker").
		Pluck("ticker", &tickers).Error
	if err != nil {
		return nil, err
	}
	return tickers, nil
}

// GormPortfolioStore implements repository.PortfolioStore.
type GormPortfolioStore struct {
	db *gorm.DB
}

func (s *GormPortfolioStore) Upsert(ctx context.Context, p *models.Position) error {
	var existing models.Position
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ?", p.UserID, p.Ticker).
		First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.WithContext(ctx).Create(p).Error
	}
	if err != nil {
		return err
	}
	existing.Quantity = p.Quantity
	existing.AvgBuyPrice = p.AvgBuyPrice
	return s.db.WithContext(ctx).Save(&existing).Error
}

func (s *GormPortfolioStore) Remove(ctx context.Context, userID uint, ticker string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND ticker = ?", userID, ticker).
		Delete(&models.Position{}).Error
}

func (s *GormPortfolioStore) Positions(ctx context.Context, userID uint) ([]models.Position, error) {
	var out []models.Position
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("ticker").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GormTradeLogStore implements repository.TradeLogStore.
type GormTradeLogStore struct {
	db *gorm.DB
}

func (s *GormTradeLogStore) LogSignal(ctx context.Context, sig models.TradeSignal) error {
	rec := models.TradeSignalRecord{
		ID:         sig.ID,
		UserID:     sig.UserID,
		Ticker:     sig.Ticker,
		Action:     string(sig.Action),
		Confidence: sig.Confidence,
		CreatedAt:  sig.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *GormTradeLogStore) LogExecution(ctx context.Context, ex models.Execution) error {
	rec := models.ExecutionRecord{
		ID:        ex.ID,
		UserID:    ex.UserID,
		Ticker:    ex.Ticker,
		Action:    string(ex.Action),
		Quantity:  ex.Quantity,
		Price:     ex.Price,
		CreatedAt: ex.CreatedAt,
	}
	return s.db.WithContext(ctx).Create(&rec).Error
}

func (s *GormTradeLogStore) SignalsForUser(ctx context.Context, userID uint, limit int) ([]models.TradeSignalRecord, error) {
	var out []models.TradeSignalRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *GormTradeLogStore) ExecutionsForUser(ctx context.Context, userID uint, limit int) ([]models.ExecutionRecord, error) {
	var out []models.ExecutionRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
