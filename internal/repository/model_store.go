package repository

import (
	"fmt"
	"os"
	"sync/atomic"

	"RiskPulse/internal/domain/models"
	"RiskPulse/internal/services/model"
	"RiskPulse/pkg/logger"
)

// FileModelStore serves predictions from a JSON artifact on disk. The
// artifact is loaded once and swapped atomically on Reload, so concurrent
// Predict calls never observe a half-replaced model. A store with no
// loadable artifact stays up but degraded: every Predict fails fast with
// a model-unavailable error until a Reload succeeds.
type FileModelStore struct {
	path    string
	logger  *logger.Logger
	current atomic.Pointer[model.Artifact]
}

func NewFileModelStore(path string, l *logger.Logger) *FileModelStore {
	s := &FileModelStore{path: path, logger: l}
	if err := s.Reload(); err != nil {
		l.Warn("model store starting degraded",
			logger.String("path", path),
			logger.Error(err))
	}
	return s
}

// artifact returns the currently served artifact.
func (s *FileModelStore) artifact() (*model.Artifact, error) {
	art := s.current.Load()
	if art == nil {
		return nil, models.ModelUnavailable(fmt.Errorf("no artifact loaded from %s", s.path))
	}
	return art, nil
}

// Reload reads the artifact file and swaps it in. On failure the
// previously loaded artifact, if any, keeps serving.
func (s *FileModelStore) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return models.ModelUnavailable(fmt.Errorf("read artifact: %w", err))
	}
	art, err := model.DecodeArtifact(data)
	if err != nil {
		return models.ModelUnavailable(err)
	}
	s.current.Store(art)
	s.logger.Info("model artifact loaded",
		logger.String("path", s.path),
		logger.String("ticker", art.Ticker),
		logger.Int("trees", art.Params.Trees),
		logger.Int("samples", art.Samples))
	return nil
}

// Predict scores one feature vector with the loaded artifact.
func (s *FileModelStore) Predict(v models.FeatureVector) (float64, error) {
	art, err := s.artifact()
	if err != nil {
		return 0, err
	}
	return art.Predict(v)
}

// Ready reports whether an artifact is currently loaded.
func (s *FileModelStore) Ready() bool {
	return s.current.Load() != nil
}
