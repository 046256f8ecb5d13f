package model

import (
	"encoding/json"
	"fmt"
	"time"

	"RiskPulse/internal/domain/models"
)

// SchemaVersion identifies the artifact layout. A loader must refuse any
// other value rather than risk mis-predicting on an incompatible bundle.
const SchemaVersion = "volatility-forest/v1"

// Artifact is the persisted, versioned model bundle: scaler plus fitted
// regressor plus the hyperparameters and provenance of the training run.
// It is immutable after creation; retraining produces a new artifact.
type Artifact struct {
	Schema    string      `json:"schema"`
	TrainedAt time.Time   `json:"trained_at"`
	Ticker    string      `json:"ticker"`
	Samples   int         `json:"samples"`
	CVScore   float64     `json:"cv_score"`
	Params    Hyperparams `json:"params"`
	Scaler    Scaler      `json:"scaler"`
	Forest    Forest      `json:"forest"`
}

// Encode serializes the artifact to JSON.
func (a *Artifact) Encode() ([]byte, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return b, nil
}

// DecodeArtifact parses and validates an artifact. Schema mismatches and
// structurally broken bundles are rejected.
func DecodeArtifact(b []byte) (*Artifact, error) {
	var a Artifact
	if err := json.Unmarshal(b, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if a.Schema != SchemaVersion {
		return nil, fmt.Errorf("artifact schema %q not supported, want %q", a.Schema, SchemaVersion)
	}
	if len(a.Scaler.Mean) != len(models.FeatureNames) || len(a.Scaler.Scale) != len(models.FeatureNames) {
		return nil, fmt.Errorf("artifact scaler has %d columns, want %d", len(a.Scaler.Mean), len(models.FeatureNames))
	}
	if len(a.Forest.Trees) == 0 {
		return nil, fmt.Errorf("artifact has no trees")
	}
	return &a, nil
}

// Predict runs the full pipeline (scaler, then forest) on one vector.
func (a *Artifact) Predict(v models.FeatureVector) (float64, error) {
	if !v.IsFinite() {
		return 0, models.FeatureUndefined("feature vector has undefined components")
	}
	row, err := a.Scaler.Transform(v.Values())
	if err != nil {
		return 0, err
	}
	return a.Forest.Predict(row)
}
