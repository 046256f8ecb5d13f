package models

import "time"

// User is an account row. The password hash is never serialized.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Username         string    `gorm:"uniqueIndex;size:80;not null" json:"username"`
	PasswordHash     string    `gorm:"size:128;not null" json:"-"`
	AutoTradeAllowed bool      `gorm:"default:false" json:"autoTradeAllowed"`
	CreatedAt        time.Time `json:"createdAt"`
}

// WatchlistItem is one ticker on a user's watchlist; (user, ticker) unique.
type WatchlistItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"uniqueIndex:idx_user_ticker;not null" json:"userId"`
	Ticker string `gorm:"uniqueIndex:idx_user_ticker;size:20;not null" json:"ticker"`
}

// Position is one portfolio holding; (user, ticker) unique.
type Position struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	UserID      uint    `gorm:"uniqueIndex:idx_user_position;not null" json:"userId"`
	Ticker      string  `gorm:"uniqueIndex:idx_user_position;size:20;not null" json:"ticker"`
	Quantity    int     `gorm:"not null" json:"quantity"`
	AvgBuyPrice float64 `gorm:"not null" json:"avgBuyPrice"`
}

// TradeSignalRecord is the persisted form of a TradeSignal.
type TradeSignalRecord struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	UserID     uint      `gorm:"index;not null" json:"userId"`
	Ticker     string    `gorm:"size:20;not null" json:"ticker"`
	Action     string    `gorm:"size:10;not null" json:"action"`
	Confidence float64   `gorm:"not null" json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ExecutionRecord is the persisted form of a simulated Execution.
type ExecutionRecord struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Ticker    string    `gorm:"size:20;not null" json:"ticker"`
	Action    string    `gorm:"size:10;not null" json:"action"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	Price     float64   `gorm:"not null" json:"price"`
	CreatedAt time.Time `json:"createdAt"`
}
