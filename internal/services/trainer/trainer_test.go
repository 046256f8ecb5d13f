package trainer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/services/model"
	"RiskPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func syntheticSeries(n int) models.PriceSeries {
	rng := rand.New(rand.NewSource(7))
	s := models.PriceSeries{Ticker: "TEST"}
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		price *= 1 + (rng.Float64()-0.5)*0.04
		s.Bars = append(s.Bars, models.PriceBar{Date: day, Close: price})
		day = day.AddDate(0, 0, 1)
	}
	return s
}

func TestTimeSeriesFoldsAreWalkForward(t *testing.T) {
	folds := timeSeriesFolds(120, 5)
	if len(folds) != 5 {
		t.Fatalf("expected 5 folds, got %d", len(folds))
	}
	testSize := 120 / 6
	prevEnd := 0
	for i, f := range folds {
		if f.valEnd-f.trainEnd != testSize {
			t.Fatalf("fold %d: validation block is %d, want %d", i, f.valEnd-f.trainEnd, testSize)
		}
		if f.trainEnd <= 0 {
			t.Fatalf("fold %d: empty training window", i)
		}
		if f.trainEnd < prevEnd {
			t.Fatalf("fold %d: training window shrank", i)
		}
		prevEnd = f.trainEnd
	}
	if folds[len(folds)-1].valEnd != 120 {
		t.Fatalf("last fold must end at the final sample, ends at %d", folds[len(folds)-1].valEnd)
	}
}

func TestTimeSeriesFoldsTooFewSamples(t *testing.T) {
	if folds := timeSeriesFolds(5, 5); len(folds) != 0 {
		t.Fatalf("expected no folds for 5 samples, got %d", len(folds))
	}
}

func TestRSquared(t *testing.T) {
	truth := []float64{1, 2, 3, 4}
	if got := rSquared(truth, truth); got != 1 {
		t.Fatalf("perfect prediction r2 = %v, want 1", got)
	}
	mean := []float64{2.5, 2.5, 2.5, 2.5}
	if got := rSquared(truth, mean); math.Abs(got) > 1e-12 {
		t.Fatalf("mean prediction r2 = %v, want 0", got)
	}
}

func TestTrainPublishesLoadableArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	tr := NewTrainer(testLogger(t))

	res, err := tr.Train(context.Background(), syntheticSeries(200), path)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if res.Samples != 200-63-5 {
		t.Fatalf("samples = %d, want %d", res.Samples, 200-63-5)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not published: %v", err)
	}
	art, err := model.DecodeArtifact(b)
	if err != nil {
		t.Fatalf("published artifact is invalid: %v", err)
	}
	if art.Ticker != "TEST" || art.Schema != model.SchemaVersion {
		t.Fatalf("unexpected artifact header: %+v", art)
	}
}

func TestTrainIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	tr := NewTrainer(testLogger(t))
	series := syntheticSeries(150)

	p1 := filepath.Join(dir, "a.json")
	p2 := filepath.Join(dir, "b.json")
	if _, err := tr.Train(context.Background(), series, p1); err != nil {
		t.Fatalf("train 1: %v", err)
	}
	if _, err := tr.Train(context.Background(), series, p2); err != nil {
		t.Fatalf("train 2: %v", err)
	}

	b1, _ := os.ReadFile(p1)
	b2, _ := os.ReadFile(p2)
	a1, err := model.DecodeArtifact(b1)
	if err != nil {
		t.Fatalf("decode 1: %v", err)
	}
	a2, err := model.DecodeArtifact(b2)
	if err != nil {
		t.Fatalf("decode 2: %v", err)
	}
	v := models.FeatureVector{Vol21d: 0.2, Vol63d: 0.25, Momentum1m: 0.01, Momentum3m: 0.05}
	x1, _ := a1.Predict(v)
	x2, _ := a2.Predict(v)
	if x1 != x2 {
		t.Fatalf("retraining on identical data changed the model: %v vs %v", x1, x2)
	}
}

func TestTrainAbortsOnShortSeriesWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	tr := NewTrainer(testLogger(t))

	_, err := tr.Train(context.Background(), syntheticSeries(80), path)
	if !errors.Is(err, models.ErrTrainingAborted) {
		t.Fatalf("expected training-aborted, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("aborted training must not write an artifact")
	}
}
