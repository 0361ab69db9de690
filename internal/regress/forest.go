package regress

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Params are the forest hyperparameters. Seed drives both the bootstrap
// sampling and nothing else, so a fixed seed gives a reproducible fit.
type Params struct {
	Trees   int   `json:"trees"`
	Seed    int64 `json:"seed"`
	MinLeaf int   `json:"min_leaf"`
}

// Forest is an ensemble of regression trees fitted on bootstrap samples.
// Predictions average the per-tree outputs; Importances holds the
// impurity-decrease share of each feature, normalized to sum 1.0.
type Forest struct {
	Params      Params    `json:"params"`
	Trees       []*Tree   `json:"trees"`
	Importances []float64 `json:"importances"`
	NumFeatures int       `json:"num_features"`
}

// FitForest trains a forest on X and y. X must be rectangular and y the same
// length as X.
func FitForest(X [][]float64, y []float64, p Params) (*Forest, error) {
	if len(X) == 0 {
		return nil, fmt.Errorf("regress: cannot fit forest on empty matrix")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("regress: %d rows but %d targets", len(X), len(y))
	}
	if p.Trees <= 0 {
		return nil, fmt.Errorf("regress: tree count must be positive, got %d", p.Trees)
	}
	if p.MinLeaf <= 0 {
		p.MinLeaf = 1
	}

	n := len(X)
	nFeatures := len(X[0])
	rng := rand.New(rand.NewSource(p.Seed))

	f := &Forest{
		Params:      p,
		Trees:       make([]*Tree, 0, p.Trees),
		Importances: make([]float64, nFeatures),
		NumFeatures: nFeatures,
	}

	idx := make([]int, n)
	for t := 0; t < p.Trees; t++ {
		for i := range idx {
			idx[i] = rng.Intn(n)
		}
		f.Trees = append(f.Trees, fitTree(X, y, idx, p.MinLeaf, f.Importances))
	}

	if total := floats.Sum(f.Importances); total > 0 {
		floats.Scale(1/total, f.Importances)
	}

	return f, nil
}

// Predict returns the ensemble mean for a single row.
func (f *Forest) Predict(row []float64) (float64, error) {
	if len(row) != f.NumFeatures {
		return 0, fmt.Errorf("regress: row has %d features, forest fitted on %d", len(row), f.NumFeatures)
	}
	sum := 0.0
	for _, t := range f.Trees {
		sum += t.Predict(row)
	}
	return sum / float64(len(f.Trees)), nil
}

// PredictAll returns the ensemble mean for every row.
func (f *Forest) PredictAll(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, row := range X {
		p, err := f.Predict(row)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// RSquared is the coefficient of determination of estimates against actual
// values. Degenerate inputs (empty, or zero variance in actual) return 0
// rather than NaN so the value is always finite.
func RSquared(estimates, actual []float64) float64 {
	if len(actual) == 0 || len(estimates) != len(actual) {
		return 0
	}
	mean := stat.Mean(actual, nil)
	ssTot := 0.0
	for _, v := range actual {
		d := v - mean
		ssTot += d * d
	}
	if ssTot == 0 {
		return 0
	}
	return stat.RSquaredFrom(estimates, actual, nil)
}
