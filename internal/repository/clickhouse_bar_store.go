package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"RiskPulse/internal/domain/models"
	pkgch "RiskPulse/pkg/clickhouse"
	applogger "RiskPulse/pkg/logger"
)

// CHBarStore is the long-term daily bar archive backed by ClickHouse.
// The trainer reads from it when the archive holds more history than the
// provider window; the scheduler appends fresh bars after each fetch.
type CHBarStore struct {
	db *sql.DB
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHBarStore(ch *pkgch.Client, l *applogger.Logger) *CHBarStore {
	return &CHBarStore{db: ch.DB(), ch: ch, l: l}
}

const barsSchema = `
CREATE TABLE IF NOT EXISTS riskpulse.daily_bars (
    ticker LowCardinality(String),
    day    Date,
    open   Float64,
    high   Float64,
    low    Float64,
    close  Float64,
    volume Float64
) ENGINE = ReplacingMergeTree()
ORDER BY (ticker, day)
`

const signalsSchema = `
CREATE TABLE IF NOT EXISTS riskpulse.trade_signals (
    id         String,
    user_id    UInt64,
    ticker     LowCardinality(String),
    action     LowCardinality(String),
    confidence Float64,
    created_at DateTime64(3)
) ENGINE = MergeTree()
ORDER BY (ticker, created_at)
`

// Init creates the archive tables.
func (s *CHBarStore) Init(ctx context.Context) error {
	return s.ch.InitSchema(ctx, []string{barsSchema, signalsSchema})
}

// StoreBars appends a full series. ReplacingMergeTree collapses re-inserts
// of the same (ticker, day), so overlapping fetch windows are harmless.
func (s *CHBarStore) StoreBars(ctx context.Context, series models.PriceSeries) error {
	if series.Len() == 0 {
		return nil
	}
	start := time.Now()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO riskpulse.daily_bars (ticker, day, open, high, low, close, volume) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	for _, b := range series.Bars {
		if _, err := stmt.ExecContext(ctx, series.Ticker, b.Date, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert bar: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bars: %w", err)
	}

	s.l.Debug("clickhouse bars stored",
		applogger.String("ticker", series.Ticker),
		applogger.Int("rows", series.Len()),
		applogger.Duration("duration", time.Since(start)))
	return nil
}

// LoadBars returns up to `limit` most recent bars in chronological order.
func (s *CHBarStore) LoadBars(ctx context.Context, ticker string, limit int) (models.PriceSeries, error) {
	start := time.Now()
	const q = `
        SELECT day, open, high, low, close, volume
        FROM riskpulse.daily_bars FINAL
        WHERE ticker = ?
        ORDER BY day DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, q, ticker, limit)
	if err != nil {
		s.l.Error("clickhouse load_bars query error",
			applogger.String("ticker", ticker),
			applogger.Error(err))
		return models.PriceSeries{}, fmt.Errorf("load bars: %w", err)
	}
	defer rows.Close()

	tmp := make([]models.PriceBar, 0, limit)
	for rows.Next() {
		var b models.PriceBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return models.PriceSeries{}, fmt.Errorf("scan bar: %w", err)
		}
		tmp = append(tmp, b)
	}
	if err := rows.Err(); err != nil {
		return models.PriceSeries{}, fmt.Errorf("rows: %w", err)
	}
	// reverse to ASC
	for i, j := 0, len(tmp)-1; i < j; i, j = i+1, j-1 {
		tmp[i], tmp[j] = tmp[j], tmp[i]
	}
	s.l.Debug("clickhouse bars loaded",
		applogger.String("ticker", ticker),
		applogger.Int("rows", len(tmp)),
		applogger.Duration("duration", time.Since(start)))
	return models.PriceSeries{Ticker: ticker, Bars: tmp}, nil
}

// Store archives one trade-signal event consumed off the bus.
func (s *CHBarStore) Store(ctx context.Context, sig models.TradeSignal) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO riskpulse.trade_signals (id, user_id, ticker, action, confidence, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		sig.ID, uint64(sig.UserID), sig.Ticker, string(sig.Action), sig.Confidence, sig.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

func (s *CHBarStore) Health(ctx context.Context) error { return s.ch.Health(ctx) }

func (s *CHBarStore) Close() error { return s.ch.Close() }
