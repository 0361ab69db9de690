package sustainability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfreight/ecoscore/internal/config"
	"github.com/openfreight/ecoscore/internal/errors"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	cfg := config.Default()
	scorer, err := NewScorer(cfg.Weights, cfg.Capacity)
	require.NoError(t, err)
	return scorer
}

func cardboardPackage(recyclable bool) Package {
	return Package{
		PackageID:    "PKG1",
		MaterialType: "cardboard",
		Weight:       1,
		Dimensions:   Dimensions{Length: 10, Width: 10, Height: 10},
		Recyclable:   recyclable,
	}
}

func TestNewScorerRejectsBadWeights(t *testing.T) {
	cfg := config.Default()
	cfg.Weights.PSI = 0.5 // sum now 1.3

	_, err := NewScorer(cfg.Weights, cfg.Capacity)
	require.Error(t, err)
	assert.True(t, errors.IsConfiguration(err))
}

func TestPSI(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("empty package list scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.PSI(nil))
	})

	t.Run("recyclable bonus is monotonic", func(t *testing.T) {
		recyclable := scorer.PSI([]Package{cardboardPackage(true)})
		plain := scorer.PSI([]Package{cardboardPackage(false)})
		assert.Greater(t, recyclable, plain)
	})

	t.Run("known value for a single cardboard package", func(t *testing.T) {
		// material 0.9*0.4 + density(0.001/0.1)*0.6 = 0.366, *1.2 recyclable
		assert.InDelta(t, 43.92, scorer.PSI([]Package{cardboardPackage(true)}), 0.01)
	})

	t.Run("unknown material falls back to default base", func(t *testing.T) {
		p := cardboardPackage(false)
		p.MaterialType = "unobtainium"
		// material 0.3*0.4 + 0.01*0.6 = 0.126
		assert.InDelta(t, 12.6, scorer.PSI([]Package{p}), 0.01)
	})

	t.Run("dense recyclable package clamps at 100", func(t *testing.T) {
		p := Package{
			MaterialType: "cardboard",
			Weight:       500,
			Dimensions:   Dimensions{Length: 10, Width: 10, Height: 10},
			Recyclable:   true,
		}
		assert.Equal(t, 100.0, scorer.PSI([]Package{p}))
	})

	t.Run("zero volume yields zero density", func(t *testing.T) {
		p := cardboardPackage(false)
		p.Dimensions = Dimensions{}
		// material score only: 0.9*0.4 = 0.36
		assert.InDelta(t, 36.0, scorer.PSI([]Package{p}), 0.01)
	})
}

func TestRES(t *testing.T) {
	scorer := newTestScorer(t)
	nyc := Coordinate{Lat: 40.7128, Long: -74.0060}
	la := Coordinate{Lat: 34.0522, Long: -118.2437}

	tests := []struct {
		name     string
		mode     string
		distance float64
		expected float64
	}{
		{"train over a real distance", "train", 1000, 96},
		{"air scores lowest mode factor", "air", 1000, 72},
		{"unknown mode uses default factor", "hyperloop", 1000, 80},
		{"zero distance kills directness", "train", 0, 36},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, scorer.RES(nyc, la, tt.mode, tt.distance), 0.01)
		})
	}
}

func TestCEI(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("air emits the most and scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.CEI(1000, "air", 500))
	})

	t.Run("ship emits the least and scores highest", func(t *testing.T) {
		ship := scorer.CEI(1000, "ship", 500)
		train := scorer.CEI(1000, "train", 500)
		truck := scorer.CEI(1000, "truck", 500)
		assert.Greater(t, ship, train)
		assert.Greater(t, train, truck)
	})

	t.Run("air scores below train for the same shipment", func(t *testing.T) {
		assert.Less(t, scorer.CEI(3936, "air", 10.5), scorer.CEI(3936, "train", 10.5))
	})

	t.Run("zero distance cannot divide by zero", func(t *testing.T) {
		assert.Equal(t, 100.0, scorer.CEI(0, "truck", 500))
	})

	t.Run("zero weight cannot divide by zero", func(t *testing.T) {
		assert.Equal(t, 100.0, scorer.CEI(1000, "truck", 0))
	})

	t.Run("unknown mode uses the truck factor", func(t *testing.T) {
		assert.InDelta(t, scorer.CEI(1000, "truck", 500), scorer.CEI(1000, "zeppelin", 500), 1e-9)
	})
}

func TestRUR(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("utilization caps at full container", func(t *testing.T) {
		heavy := Package{
			MaterialType: "metal",
			Weight:       50000,
			Dimensions:   Dimensions{Length: 100, Width: 100, Height: 100},
		}
		assert.Equal(t, 100.0, scorer.RUR([]Package{heavy}))
	})

	t.Run("partial utilization blends volume and weight", func(t *testing.T) {
		p := Package{
			MaterialType: "cardboard",
			Weight:       2675.5, // 10% of max weight
			Dimensions:   Dimensions{Length: 1, Width: 1, Height: 6.76}, // 10% of capacity volume
		}
		assert.InDelta(t, 10.0, scorer.RUR([]Package{p}), 0.01)
	})
}

func TestEER(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("air consumes the most energy and scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.EER("air", 1000, 500))
	})

	t.Run("ship is the most energy efficient", func(t *testing.T) {
		assert.InDelta(t, (1-0.2/8.0)*100, scorer.EER("ship", 1000, 500), 0.01)
	})

	t.Run("zero tonne-km scores 100", func(t *testing.T) {
		assert.Equal(t, 100.0, scorer.EER("truck", 0, 0))
	})
}

func TestWRS(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("empty package list scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, scorer.WRS(nil))
	})

	t.Run("recyclable beats non-recyclable", func(t *testing.T) {
		assert.Greater(t,
			scorer.WRS([]Package{cardboardPackage(true)}),
			scorer.WRS([]Package{cardboardPackage(false)}))
	})

	t.Run("known value for one recyclable cardboard package", func(t *testing.T) {
		// 100*0.4 + 90*0.3 + (0.001/0.1)*100*0.3 = 67.3
		assert.InDelta(t, 67.3, scorer.WRS([]Package{cardboardPackage(true)}), 0.01)
	})

	t.Run("heavier packages dominate the weighted mean", func(t *testing.T) {
		good := cardboardPackage(true)
		good.Weight = 100
		bad := Package{
			MaterialType: "plastic",
			Weight:       1,
			Dimensions:   Dimensions{Length: 10, Width: 10, Height: 10},
		}
		score := scorer.WRS([]Package{good, bad})
		// Weighted mean sits near the heavy package's score.
		assert.Greater(t, score, 65.0)
	})

	t.Run("zero total weight cannot divide by zero", func(t *testing.T) {
		p := cardboardPackage(true)
		p.Weight = 0
		score := scorer.WRS([]Package{p})
		assert.False(t, score != score, "score must not be NaN")
		assert.GreaterOrEqual(t, score, 0.0)
	})
}

func TestOverall(t *testing.T) {
	scorer := newTestScorer(t)

	t.Run("uniform metrics return the same value", func(t *testing.T) {
		m := SustainabilityMetrics{PSI: 50, RES: 50, CEI: 50, RUR: 50, EER: 50, WRS: 50}
		assert.Equal(t, 50.0, scorer.Overall(m))
	})

	t.Run("default weights blend per metric", func(t *testing.T) {
		m := SustainabilityMetrics{PSI: 100, RES: 0, CEI: 0, RUR: 0, EER: 0, WRS: 0}
		assert.Equal(t, 20.0, scorer.Overall(m))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		m := SustainabilityMetrics{PSI: 33.333, RES: 33.333, CEI: 33.333, RUR: 33.333, EER: 33.333, WRS: 33.333}
		assert.Equal(t, 33.33, scorer.Overall(m))
	})

	t.Run("stays inside the convex hull of sub-scores", func(t *testing.T) {
		m := SustainabilityMetrics{PSI: 10, RES: 90, CEI: 40, RUR: 70, EER: 20, WRS: 55}
		overall := scorer.Overall(m)
		assert.GreaterOrEqual(t, overall, 10.0)
		assert.LessOrEqual(t, overall, 90.0)
	})
}
