package usecase

import (
	"reflect"
	"testing"

	"RiskPulse/internal/domain/models"
)

func TestExtractTickers(t *testing.T) {
	uc := &AdvisorUseCase{}

	cases := []struct {
		query string
		want  []string
	}{
		{"should I buy AAPL or MSFT", []string{"AAPL", "MSFT"}},
		{"AAPL vs AAPL vs GOOGL", []string{"AAPL", "GOOGL"}},
		{"what is the best low risk ETF", nil},
		{"is NVDA a buy", []string{"NVDA"}},
		{"compare spy and qqq", nil}, // lowercase words are not symbols
	}
	for _, c := range cases {
		got := uc.extractTickers(c.query)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("extractTickers(%q) = %v, want %v", c.query, got, c.want)
		}
	}
}

func TestBotDecide(t *testing.T) {
	uc := NewBotUseCase(nil, nil, nil, nil, nil, nil, BotConfig{
		BuyThreshold:  0.20,
		SellThreshold: 0.40,
	}, testLogger(t))

	result := func(pred float64) *models.AnalysisResult {
		return &models.AnalysisResult{Ticker: "SPY", PredictedVolatility: pred}
	}

	calm := uc.decide(1, result(0.10), false)
	if calm.Action != models.ActionBuy {
		t.Fatalf("low predicted vol must buy, got %s", calm.Action)
	}
	if calm.Confidence <= 0.5 || calm.Confidence > 1 {
		t.Fatalf("buy confidence out of range: %v", calm.Confidence)
	}

	stormyHeld := uc.decide(1, result(0.50), true)
	if stormyHeld.Action != models.ActionSell {
		t.Fatalf("high predicted vol on a held position must sell, got %s", stormyHeld.Action)
	}

	stormyFlat := uc.decide(1, result(0.50), false)
	if stormyFlat.Action != models.ActionHold {
		t.Fatalf("high predicted vol without a position must hold, got %s", stormyFlat.Action)
	}

	middling := uc.decide(1, result(0.30), true)
	if middling.Action != models.ActionHold || middling.Confidence != 0.5 {
		t.Fatalf("mid-range vol must hold at 0.5 confidence, got %s/%v", middling.Action, middling.Confidence)
	}
}
