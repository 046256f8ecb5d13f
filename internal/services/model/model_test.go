package model

import (
	"math"
	"strings"
	"testing"
	"time"

	"RiskPulse/internal/domain/models"
)

func TestScalerUsesPopulationStd(t *testing.T) {
	rows := [][]float64{{1, 5}, {3, 5}}
	s, err := FitScaler(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Mean[0] != 2 {
		t.Fatalf("mean = %v, want 2", s.Mean[0])
	}
	// population std of {1,3} is 1, sample std would be sqrt(2)
	if math.Abs(s.Scale[0]-1) > 1e-12 {
		t.Fatalf("scale = %v, want 1 (population std)", s.Scale[0])
	}
	// zero-variance column scales by 1 instead of dividing by zero
	if s.Scale[1] != 1 {
		t.Fatalf("zero-variance scale = %v, want 1", s.Scale[1])
	}

	out, err := s.Transform([]float64{3, 5})
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out[0] != 1 || out[1] != 0 {
		t.Fatalf("transform = %v, want [1 0]", out)
	}
}

func TestTreeFitsStepFunction(t *testing.T) {
	x := [][]float64{{0}, {1}, {2}, {10}, {11}, {12}}
	y := []float64{1, 1, 1, 5, 5, 5}
	idx := []int{0, 1, 2, 3, 4, 5}

	tree := buildTree(x, y, idx, 3)
	for i, row := range x {
		got, err := tree.Predict(row)
		if err != nil {
			t.Fatalf("predict: %v", err)
		}
		if got != y[i] {
			t.Fatalf("predict(%v) = %v, want %v", row, got, y[i])
		}
	}
}

func trainingFixture() ([][]float64, []float64) {
	n := 80
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := math.Sin(float64(i) * 0.37)
		b := math.Cos(float64(i) * 0.11)
		x[i] = []float64{a, b, a * b, float64(i) / float64(n)}
		y[i] = 0.2*a - 0.1*b + 0.05*a*b
	}
	return x, y
}

func TestForestIsDeterministic(t *testing.T) {
	x, y := trainingFixture()
	p := Hyperparams{Trees: 20, MaxDepth: 5, Seed: 42}

	f1, err := FitForest(x, y, p)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	f2, err := FitForest(x, y, p)
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	for _, row := range x {
		a, _ := f1.Predict(row)
		b, _ := f2.Predict(row)
		if a != b {
			t.Fatalf("same seed produced different predictions: %v vs %v", a, b)
		}
	}
}

func TestForestSeedChangesModel(t *testing.T) {
	x, y := trainingFixture()
	f1, _ := FitForest(x, y, Hyperparams{Trees: 20, MaxDepth: 5, Seed: 1})
	f2, _ := FitForest(x, y, Hyperparams{Trees: 20, MaxDepth: 5, Seed: 2})

	same := true
	for _, row := range x {
		a, _ := f1.Predict(row)
		b, _ := f2.Predict(row)
		if a != b {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("different seeds produced identical forests")
	}
}

func TestArtifactRoundTrip(t *testing.T) {
	x, y := trainingFixture()
	scaler, err := FitScaler(x)
	if err != nil {
		t.Fatalf("fit scaler: %v", err)
	}
	scaled, err := scaler.TransformAll(x)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	forest, err := FitForest(scaled, y, Hyperparams{Trees: 10, MaxDepth: 4, Seed: 42})
	if err != nil {
		t.Fatalf("fit forest: %v", err)
	}

	art := &Artifact{
		Schema:    SchemaVersion,
		TrainedAt: time.Now().UTC(),
		Ticker:    "TEST",
		Samples:   len(y),
		Params:    forest.Params,
		Scaler:    scaler,
		Forest:    forest,
	}

	v := models.FeatureVector{Vol21d: x[7][0], Vol63d: x[7][1], Momentum1m: x[7][2], Momentum3m: x[7][3]}
	before, err := art.Predict(v)
	if err != nil {
		t.Fatalf("predict before: %v", err)
	}

	b, err := art.Encode()
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := DecodeArtifact(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	after, err := decoded.Predict(v)
	if err != nil {
		t.Fatalf("predict after: %v", err)
	}
	if before != after {
		t.Fatalf("round trip changed prediction: %v vs %v", before, after)
	}
}

func TestDecodeRejectsUnknownSchema(t *testing.T) {
	_, err := DecodeArtifact([]byte(`{"schema":"volatility-forest/v999"}`))
	if err == nil || !strings.Contains(err.Error(), "schema") {
		t.Fatalf("expected schema rejection, got %v", err)
	}
}

func TestPredictRejectsNonFiniteVector(t *testing.T) {
	art := &Artifact{
		Schema: SchemaVersion,
		Scaler: Scaler{Mean: []float64{0, 0, 0, 0}, Scale: []float64{1, 1, 1, 1}},
		Forest: Forest{Trees: []Tree{{Nodes: []Node{{Feature: -1, Value: 0.3}}}}},
	}
	v := models.FeatureVector{Vol21d: math.NaN()}
	if _, err := art.Predict(v); models.KindOf(err) != models.KindFeatureUndefined {
		t.Fatalf("expected feature-undefined, got %v", err)
	}
}
