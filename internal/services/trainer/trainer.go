package trainer

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/stat"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/services/features"
	"RiskPulse/internal/services/model"
	"RiskPulse/pkg/logger"
)

const (
	cvSplits = 5
	// MinSamples is the smallest training set the cross-validation scheme
	// can split meaningfully: every fold must hold at least one validation
	// row after at least one training row.
	MinSamples = 24
	forestSeed = 42
)

// Grid is the hyperparameter search space. Enumeration order is fixed so
// that score ties resolve the same way on every run.
var (
	gridDepths = []int{5, 10}
	gridTrees  = []int{50, 100}
)

// Result summarizes a completed training run.
type Result struct {
	Ticker   string
	Samples  int
	Params   model.Hyperparams
	CVScore  float64
	Path     string
	Duration time.Duration
}

// Trainer builds volatility-forecast artifacts from raw price history.
type Trainer struct {
	logger *logger.Logger
}

func NewTrainer(l *logger.Logger) *Trainer {
	return &Trainer{logger: l}
}

// Train runs the full pipeline for one ticker: dataset construction,
// walk-forward grid search, refit on all samples, atomic artifact publish.
// On any failure the file at path is left untouched, so a previously
// published artifact keeps serving.
func (t *Trainer) Train(ctx context.Context, series models.PriceSeries, path string) (*Result, error) {
	start := time.Now()

	ds, err := features.Dataset(series)
	if err != nil {
		return nil, models.TrainingAborted("dataset for %s: %v", series.Ticker, err)
	}
	if ds.Len() < MinSamples {
		return nil, models.TrainingAborted(
			"%s has %d usable samples, need at least %d", series.Ticker, ds.Len(), MinSamples)
	}

	x := make([][]float64, ds.Len())
	for i, v := range ds.X {
		x[i] = v.Values()
	}

	best, bestScore, err := t.gridSearch(ctx, x, ds.Y)
	if err != nil {
		return nil, err
	}
	t.logger.Info("grid search finished",
		logger.String("ticker", series.Ticker),
		logger.Int("trees", best.Trees),
		logger.Int("max_depth", best.MaxDepth),
		logger.Any("cv_r2", bestScore))

	// Refit the winner on the full dataset before publishing.
	scaler, err := model.FitScaler(x)
	if err != nil {
		return nil, fmt.Errorf("fit scaler: %w", err)
	}
	scaled, err := scaler.TransformAll(x)
	if err != nil {
		return nil, err
	}
	forest, err := model.FitForest(scaled, ds.Y, best)
	if err != nil {
		return nil, fmt.Errorf("fit forest: %w", err)
	}

	art := &model.Artifact{
		Schema:    model.SchemaVersion,
		TrainedAt: time.Now().UTC(),
		Ticker:    series.Ticker,
		Samples:   ds.Len(),
		CVScore:   bestScore,
		Params:    best,
		Scaler:    scaler,
		Forest:    forest,
	}
	if err := publish(art, path); err != nil {
		return nil, err
	}

	res := &Result{
		Ticker:   series.Ticker,
		Samples:  ds.Len(),
		Params:   best,
		CVScore:  bestScore,
		Path:     path,
		Duration: time.Since(start),
	}
	t.logger.Info("model trained",
		logger.String("ticker", res.Ticker),
		logger.Int("samples", res.Samples),
		logger.String("path", path),
		logger.Duration("took", res.Duration))
	return res, nil
}

// gridSearch evaluates every (depth, trees) pair with walk-forward
// cross-validation and keeps the first pair reaching the best mean R².
// Only a strictly better score displaces the incumbent.
func (t *Trainer) gridSearch(ctx context.Context, x [][]float64, y []float64) (model.Hyperparams, float64, error) {
	folds := timeSeriesFolds(len(y), cvSplits)
	if len(folds) == 0 {
		return model.Hyperparams{}, 0, models.TrainingAborted(
			"cannot form %d walk-forward folds from %d samples", cvSplits, len(y))
	}

	var (
		best      model.Hyperparams
		bestScore = math.Inf(-1)
	)
	for _, depth := range gridDepths {
		for _, trees := range gridTrees {
			if err := ctx.Err(); err != nil {
				return model.Hyperparams{}, 0, models.TrainingAborted("grid search canceled: %v", err)
			}
			p := model.Hyperparams{Trees: trees, MaxDepth: depth, Seed: forestSeed}
			score, err := crossValidate(x, y, folds, p)
			if err != nil {
				return model.Hyperparams{}, 0, err
			}
			if score > bestScore {
				bestScore = score
				best = p
			}
		}
	}
	return best, bestScore, nil
}

// fold is one walk-forward split: train on [0, trainEnd), validate on
// [trainEnd, valEnd). Validation blocks never precede training rows.
type fold struct {
	trainEnd int
	valEnd   int
}

// timeSeriesFolds carves n time-ordered samples into `splits` expanding
// windows. Each validation block holds n/(splits+1) consecutive samples
// and training always covers everything strictly before it.
func timeSeriesFolds(n, splits int) []fold {
	testSize := n / (splits + 1)
	if testSize < 1 {
		return nil
	}
	folds := make([]fold, 0, splits)
	for i := 0; i < splits; i++ {
		valEnd := n - (splits-i-1)*testSize
		trainEnd := valEnd - testSize
		if trainEnd < 1 {
			continue
		}
		folds = append(folds, fold{trainEnd: trainEnd, valEnd: valEnd})
	}
	return folds
}

// crossValidate returns the mean R² across folds for one hyperparameter
// setting. The scaler is refit on each fold's training rows only, so no
// validation information leaks into standardization.
func crossValidate(x [][]float64, y []float64, folds []fold, p model.Hyperparams) (float64, error) {
	scores := make([]float64, 0, len(folds))
	for _, f := range folds {
		trainX, trainY := x[:f.trainEnd], y[:f.trainEnd]
		valX, valY := x[f.trainEnd:f.valEnd], y[f.trainEnd:f.valEnd]

		scaler, err := model.FitScaler(trainX)
		if err != nil {
			return 0, err
		}
		scaledTrain, err := scaler.TransformAll(trainX)
		if err != nil {
			return 0, err
		}
		forest, err := model.FitForest(scaledTrain, trainY, p)
		if err != nil {
			return 0, err
		}

		pred := make([]float64, len(valX))
		for i, row := range valX {
			scaled, err := scaler.Transform(row)
			if err != nil {
				return 0, err
			}
			pred[i], err = forest.Predict(scaled)
			if err != nil {
				return 0, err
			}
		}
		scores = append(scores, rSquared(valY, pred))
	}
	return stat.Mean(scores, nil), nil
}

// rSquared is the coefficient of determination. A constant truth column
// yields -Inf unless predictions are exact, which matches how the score
// behaves in the usual CV tooling.
func rSquared(truth, pred []float64) float64 {
	mean := stat.Mean(truth, nil)
	var ssRes, ssTot float64
	for i := range truth {
		d := truth[i] - pred[i]
		ssRes += d * d
		m := truth[i] - mean
		ssTot += m * m
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return math.Inf(-1)
	}
	return 1 - ssRes/ssTot
}

// publish writes the artifact next to its destination and renames it into
// place, so readers only ever see a complete file.
func publish(art *model.Artifact, path string) error {
	data, err := art.Encode()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".artifact-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}
