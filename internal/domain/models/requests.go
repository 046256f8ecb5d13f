package models

// Requests for the HTTP surface. Defined in domain for consistency and reuse.

type AnalyzeRequest struct {
	Ticker string `json:"ticker" validate:"required,min=1,max=20"`
}

type RecommendRequest struct {
	Query string `json:"query" validate:"required,min=1,max=2000"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type WatchlistAddRequest struct {
	Ticker string `json:"ticker" validate:"required,min=1,max=20"`
}

type PositionRequest struct {
	Ticker      string  `json:"ticker" validate:"required,min=1,max=20"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	AvgBuyPrice float64 `json:"avgBuyPrice" validate:"required,gt=0"`
}

type TrainRequest struct {
	Ticker string `json:"ticker" default:"SPY" validate:"omitempty,min=1,max=20"`
	Period string `json:"period" default:"15y" validate:"omitempty,oneof=1y 2y 5y 10y 15y"`
}
