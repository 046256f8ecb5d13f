package repository

import "testing"

func TestGormConfigTranslatesDriverErrors(t *testing.T) {
	cfg := gormConfig()

	// Without error translation the driver's raw unique-violation error
	// reaches GormWatchlistStore.Add, which only tolerates
	// gorm.ErrDuplicatedKey, and a repeated watchlist add turns into a 500.
	if !cfg.TranslateError {
		t.Fatalf("TranslateError must be enabled for idempotent watchlist adds")
	}
	if cfg.Logger == nil {
		t.Fatalf("expected a silenced gorm logger")
	}
}
