package models

import "time"

// ChartData carries parallel date/price sequences for the price chart.
type ChartData struct {
	Labels []string  `json:"labels"`
	Prices []float64 `json:"prices"`
}

// AnalysisResult is the per-request analysis record returned to callers.
// Volatilities are rounded to 3 decimals, Sharpe to 2, prices to 2.
// SharpeRatio is nil when realized volatility is zero (ratio undefined).
type AnalysisResult struct {
	Ticker               string    `json:"ticker"`
	LastClosePrice       float64   `json:"lastClosePrice"`
	HistoricalVolatility float64   `json:"historicalVolatility"`
	SharpeRatio          *float64  `json:"sharpeRatio"`
	PredictedVolatility  float64   `json:"predictedVolatility"`
	ChartData            ChartData `json:"chartData"`
	Summary              string    `json:"aiSummary,omitempty"`
}

// Quote is a lightweight ticker-strip entry: latest price and day change.
type Quote struct {
	Name       string  `json:"name"`
	Value      string  `json:"value"`
	Change     string  `json:"change"`
	IsNegative bool    `json:"isNegative"`
	Price      float64 `json:"-"`
}

// SignalAction is the structured trading-bot decision. Signals are derived
// from model numbers only, never parsed out of generated text.
type SignalAction string

const (
	ActionBuy  SignalAction = "BUY"
	ActionSell SignalAction = "SELL"
	ActionHold SignalAction = "HOLD"
)

// TradeSignal is one structured bot decision for a user/ticker pair.
type TradeSignal struct {
	ID         string       `json:"id"`
	UserID     uint         `json:"userId"`
	Ticker     string       `json:"ticker"`
	Action     SignalAction `json:"action"`
	Confidence float64      `json:"confidence"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Execution is a simulated trade record produced by the bot.
type Execution struct {
	ID        string       `json:"id"`
	UserID    uint         `json:"userId"`
	Ticker    string       `json:"ticker"`
	Action    SignalAction `json:"action"`
	Quantity  int          `json:"quantity"`
	Price     float64      `json:"price"`
	CreatedAt time.Time    `json:"createdAt"`
}
