package model

import (
	"fmt"
	"math/rand"
)

// Hyperparams are the tunable settings of the regression forest. They are
// embedded in the artifact so a loader can tell how the model was built.
type Hyperparams struct {
	Trees    int   `json:"trees"`
	MaxDepth int   `json:"max_depth"`
	Seed     int64 `json:"seed"`
}

// Forest is a bagged ensemble of regression trees. The prediction is the
// mean of tree outputs. Training is deterministic: tree i bootstraps with
// a PRNG seeded from (Seed, i), so refits with the same data and
// hyperparameters reproduce the model bit for bit.
type Forest struct {
	Params Hyperparams `json:"params"`
	Trees  []Tree      `json:"trees"`
}

// FitForest trains the ensemble on standardized rows.
func FitForest(x [][]float64, y []float64, p Hyperparams) (Forest, error) {
	if len(x) == 0 || len(x) != len(y) {
		return Forest{}, fmt.Errorf("fit forest: %d rows, %d labels", len(x), len(y))
	}
	if p.Trees <= 0 || p.MaxDepth <= 0 {
		return Forest{}, fmt.Errorf("fit forest: invalid hyperparams %+v", p)
	}

	f := Forest{Params: p, Trees: make([]Tree, p.Trees)}
	n := len(x)
	for i := 0; i < p.Trees; i++ {
		rng := rand.New(rand.NewSource(p.Seed + int64(i)))
		idx := make([]int, n)
		for j := range idx {
			idx[j] = rng.Intn(n)
		}
		f.Trees[i] = buildTree(x, y, idx, p.MaxDepth)
	}
	return f, nil
}

// Predict returns the ensemble mean for one standardized row.
func (f Forest) Predict(row []float64) (float64, error) {
	if len(f.Trees) == 0 {
		return 0, fmt.Errorf("predict: empty forest")
	}
	var sum float64
	for _, t := range f.Trees {
		v, err := t.Predict(row)
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum / float64(len(f.Trees)), nil
}
