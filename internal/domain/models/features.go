package models

import "math"

// FeatureNames lists the model inputs in wire order. The order is part of
// the training/inference contract and must never change between the two.
var FeatureNames = [4]string{"vol_21d", "vol_63d", "momentum_1m", "momentum_3m"}

// FeatureVector is the fixed-order model input for one trading day.
type FeatureVector struct {
	Vol21d     float64
	Vol63d     float64
	Momentum1m float64
	Momentum3m float64
}

// Values returns the vector components in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	return []float64{v.Vol21d, v.Vol63d, v.Momentum1m, v.Momentum3m}
}

// IsFinite reports whether every component is a usable real number.
func (v FeatureVector) IsFinite() bool {
	for _, x := range v.Values() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// TrainingDataset holds aligned (feature row, label) pairs in time order.
// Rows with insufficient trailing history or label lookahead are excluded
// at construction; no row may contain an undefined value.
type TrainingDataset struct {
	X []FeatureVector
	Y []float64
}

// Len returns the number of samples.
func (d TrainingDataset) Len() int { return len(d.X) }
