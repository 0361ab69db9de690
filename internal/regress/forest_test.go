package regress

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Params {
	return Params{Trees: 10, Seed: 42, MinLeaf: 1}
}

// rampData is a simple learnable relationship: y depends on the first
// feature, the second is noise-free but irrelevant.
func rampData(n int) ([][]float64, []float64) {
	X := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		X[i] = []float64{float64(i), float64(i % 3)}
		y[i] = 10 + 2*float64(i)
	}
	return X, y
}

func TestFitForest(t *testing.T) {
	t.Run("constant target predicts the constant", func(t *testing.T) {
		X := [][]float64{{1, 0}, {2, 0}, {3, 0}, {4, 0}}
		y := []float64{7, 7, 7, 7}

		f, err := FitForest(X, y, testParams())
		require.NoError(t, err)

		p, err := f.Predict([]float64{2.5, 0})
		require.NoError(t, err)
		assert.InDelta(t, 7, p, 1e-9)
	})

	t.Run("learns a monotone ramp", func(t *testing.T) {
		X, y := rampData(50)

		f, err := FitForest(X, y, testParams())
		require.NoError(t, err)

		preds, err := f.PredictAll(X)
		require.NoError(t, err)
		assert.Greater(t, RSquared(preds, y), 0.9)
	})

	t.Run("importances favor the informative feature", func(t *testing.T) {
		X, y := rampData(50)

		f, err := FitForest(X, y, testParams())
		require.NoError(t, err)

		require.Len(t, f.Importances, 2)
		assert.InDelta(t, 1.0, f.Importances[0]+f.Importances[1], 1e-9)
		assert.Greater(t, f.Importances[0], f.Importances[1])
	})

	t.Run("same seed reproduces the fit", func(t *testing.T) {
		X, y := rampData(30)

		a, err := FitForest(X, y, testParams())
		require.NoError(t, err)
		b, err := FitForest(X, y, testParams())
		require.NoError(t, err)

		pa, err := a.Predict([]float64{12.5, 1})
		require.NoError(t, err)
		pb, err := b.Predict([]float64{12.5, 1})
		require.NoError(t, err)

		assert.Equal(t, pa, pb)
		assert.Equal(t, a.Importances, b.Importances)
	})

	t.Run("empty matrix fails", func(t *testing.T) {
		_, err := FitForest(nil, nil, testParams())
		assert.Error(t, err)
	})

	t.Run("mismatched targets fail", func(t *testing.T) {
		_, err := FitForest([][]float64{{1}, {2}}, []float64{1}, testParams())
		assert.Error(t, err)
	})

	t.Run("wrong row width fails to predict", func(t *testing.T) {
		f, err := FitForest([][]float64{{1, 2}, {3, 4}}, []float64{1, 2}, testParams())
		require.NoError(t, err)

		_, err = f.Predict([]float64{1})
		assert.Error(t, err)
	})
}

func TestRSquared(t *testing.T) {
	tests := []struct {
		name      string
		estimates []float64
		actual    []float64
		expected  float64
	}{
		{"perfect fit", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"mean predictor scores zero", []float64{2, 2, 2}, []float64{1, 2, 3}, 0},
		{"zero variance in actual returns zero", []float64{5, 5}, []float64{5, 5}, 0},
		{"empty input returns zero", nil, nil, 0},
		{"mismatched lengths return zero", []float64{1}, []float64{1, 2}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RSquared(tt.estimates, tt.actual)
			assert.False(t, math.IsNaN(got))
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}
