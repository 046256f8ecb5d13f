package repository

import (
	"errors"
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

// writeArtifact publishes a tiny but structurally valid artifact whose
// forest is a single constant leaf.
func writeArtifact(t *testing.T, path string, value float64) {
	t.Helper()
	art := &model.Artifact{
		Schema:    model.SchemaVersion,
		TrainedAt: time.Now().UTC(),
		Ticker:    "TEST",
		Samples:   30,
		Params:    model.Hyperparams{Trees: 1, MaxDepth: 1, Seed: 42},
		Scaler:    model.Scaler{Mean: []float64{0, 0, 0, 0}, Scale: []float64{1, 1, 1, 1}},
		Forest: model.Forest{
			Params: model.Hyperparams{Trees: 1, MaxDepth: 1, Seed: 42},
			Trees:  []model.Tree{{Nodes: []model.Node{{Feature: -1, Value: value}}}},
		},
	}
	b, err := art.Encode()
	if err != nil {
		t.Fatalf("encode artifact: %v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}
}

func TestModelStoreDegradedWithoutArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.json")
	s := NewFileModelStore(path, testLogger(t))

	if s.Ready() {
		t.Fatalf("store must not be ready without an artifact")
	}
	_, err := s.Predict(models.FeatureVector{Vol21d: 0.1, Vol63d: 0.1})
	if !errors.Is(err, models.ErrModelUnavailable) {
		t.Fatalf("expected model-unavailable, got %v", err)
	}
}

func TestModelStoreServesLoadedArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeArtifact(t, path, 0.42)

	s := NewFileModelStore(path, testLogger(t))
	if !s.Ready() {
		t.Fatalf("store must be ready after loading a valid artifact")
	}
	got, err := s.Predict(models.FeatureVector{Vol21d: 0.2, Vol63d: 0.25, Momentum1m: 0.01, Momentum3m: 0.03})
	if err != nil {
		t.Fatalf("predict: %v", err)
	}
	if got != 0.42 {
		t.Fatalf("predict = %v, want 0.42", got)
	}
}

func TestModelStoreReloadSwapsAndKeepsOldOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	writeArtifact(t, path, 0.42)
	s := NewFileModelStore(path, testLogger(t))

	writeArtifact(t, path, 0.99)
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got, _ := s.Predict(models.FeatureVector{}); got != 0.99 {
		t.Fatalf("predict after reload = %v, want 0.99", got)
	}

	// a corrupt file must not displace the serving artifact
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}
	if err := s.Reload(); err == nil {
		t.Fatalf("expected reload failure on corrupt artifact")
	}
	if !s.Ready() {
		t.Fatalf("store must keep serving the previous artifact")
	}
	if got, _ := s.Predict(models.FeatureVector{}); got != 0.99 {
		t.Fatalf("predict after failed reload = %v, want 0.99", got)
	}
}
