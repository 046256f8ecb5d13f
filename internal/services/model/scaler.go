package model

import (
	"fmt"
	"math"
)

// Scaler standardizes feature columns to zero mean and unit variance.
// Scale uses the population (biased) standard deviation to match the
// reference pipeline's standardizer; a zero-variance column scales by 1.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-column mean and population stddev.
func FitScaler(rows [][]float64) (Scaler, error) {
	if len(rows) == 0 {
		return Scaler{}, fmt.Errorf("fit scaler: empty input")
	}
	dim := len(rows[0])
	mean := make([]float64, dim)
	scale := make([]float64, dim)

	for _, r := range rows {
		if len(r) != dim {
			return Scaler{}, fmt.Errorf("fit scaler: ragged row, want %d columns got %d", dim, len(r))
		}
		for j, x := range r {
			mean[j] += x
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}
	for _, r := range rows {
		for j, x := range r {
			d := x - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}
	return Scaler{Mean: mean, Scale: scale}, nil
}

// Transform standardizes a single row.
func (s Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Mean) {
		return nil, fmt.Errorf("transform: want %d columns got %d", len(s.Mean), len(row))
	}
	out := make([]float64, len(row))
	for j, x := range row {
		out[j] = (x - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformAll standardizes a full matrix.
func (s Scaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		t, err := s.Transform(r)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
