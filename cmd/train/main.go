package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/service/marketdata"
	"RiskPulse/internal/services/trainer"
	"RiskPulse/pkg/config"
	xhttp "RiskPulse/pkg/http"
	applogger "RiskPulse/pkg/logger"
)

// Offline training entry point. Fetches history, trains the volatility
// forest, and publishes the artifact the serving process loads.
func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	ticker := flag.String("ticker", "", "ticker to train on (default from config)")
	period := flag.String("period", "", "lookback period, e.g. 15y (default from config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *ticker == "" {
		*ticker = cfg.Model.DefaultTicker
	}
	if *period == "" {
		*period = cfg.Model.TrainingPeriod
	}

	l, err := applogger.New(&applogger.Config{Level: "info", Format: "console", Output: "stdout"})
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	timeout := cfg.Model.TrainingTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	source := marketdata.NewYahooSource(xhttp.NewClient(xhttp.WithTimeout(30*time.Second)), l)
	series, err := source.Fetch(ctx, *ticker, models.Period(*period))
	if err != nil {
		log.Fatalf("fetch %s: %v", *ticker, err)
	}
	l.Info("history fetched",
		applogger.String("ticker", *ticker),
		applogger.Int("bars", series.Len()))

	path := filepath.Join(cfg.Model.Dir, "volatility_forest.json")
	res, err := trainer.NewTrainer(l).Train(ctx, series, path)
	if err != nil {
		log.Fatalf("train: %v", err)
	}
	l.Info("artifact published",
		applogger.String("path", res.Path),
		applogger.Int("samples", res.Samples),
		applogger.Int("trees", res.Params.Trees),
		applogger.Int("max_depth", res.Params.MaxDepth),
		applogger.Any("cv_r2", res.CVScore),
		applogger.Duration("took", res.Duration))
}
