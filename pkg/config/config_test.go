package config

import (
	"os"
	"path/filepath"
	"testing"
)

const minimalYAML = `environment: test
market_data:
  tickers: [SPY]
model:
  dir: data/models
  default_ticker: SPY
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadWithEnvValidatesAfterOverrides(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	// the secret lives only in the environment, not in the file
	t.Setenv("JWT_SECRET", "env-only-secret")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if c.Auth.JWTSecret != "env-only-secret" {
		t.Fatalf("jwt secret = %q, want env override", c.Auth.JWTSecret)
	}
}

func TestLoadWithEnvRequiresSecret(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	t.Setenv("JWT_SECRET", "")
	if _, err := LoadWithEnv(path); err == nil {
		t.Fatalf("expected validation failure without a jwt secret")
	}
}

func TestLoadRejectsIncompleteFile(t *testing.T) {
	path := writeConfig(t, "environment: test\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected validation failure for incomplete config")
	}
}

func TestTickerOverride(t *testing.T) {
	path := writeConfig(t, minimalYAML)

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("TICKER_SYMBOLS", "AAPL,MSFT")
	c, err := LoadWithEnv(path)
	if err != nil {
		t.Fatalf("load with env: %v", err)
	}
	if len(c.MarketData.Tickers) != 2 || c.MarketData.Tickers[0] != "AAPL" {
		t.Fatalf("tickers = %v, want [AAPL MSFT]", c.MarketData.Tickers)
	}
}
