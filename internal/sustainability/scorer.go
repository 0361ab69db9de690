package sustainability

import (
	"math"
	"strings"

	"github.com/openfreight/ecoscore/internal/config"
)

var (
	// materialBaseScores feed the package sustainability index.
	materialBaseScores = map[string]float64{
		"cardboard": 0.9,
		"paper":     0.85,
		"plastic":   0.4,
		"metal":     0.7,
		"glass":     0.8,
		"wood":      0.75,
	}
	defaultMaterialBase = 0.3

	// modeFactors feed the route efficiency score.
	modeFactors = map[string]float64{
		"truck": 0.7,
		"train": 0.9,
		"ship":  0.85,
		"air":   0.3,
	}
	defaultModeFactor = 0.5

	// emissionFactors are kg CO2 per tonne-km.
	emissionFactors = map[string]float64{
		"truck": 0.062,
		"train": 0.022,
		"ship":  0.015,
		"air":   0.602,
	}
	defaultEmissionFactor = 0.062

	// energyFactors are MJ per tonne-km.
	energyFactors = map[string]float64{
		"truck": 2.5,
		"train": 0.6,
		"ship":  0.2,
		"air":   8.0,
	}
	defaultEnergyFactor = 2.5

	// materialEfficiency feeds the waste reduction score.
	materialEfficiency = map[string]float64{
		"cardboard": 90,
		"paper":     85,
		"plastic":   40,
		"metal":     80,
		"glass":     75,
		"wood":      70,
	}
	defaultMaterialEfficiency = 30.0

	// densityNorm normalizes package density into a [0,1] score.
	densityNorm = 0.1

	recyclableBonus   = 1.2
	recyclableWRS     = 100.0
	nonRecyclableWRS  = 40.0
	maxEmissionFactor = maxValue(emissionFactors)
	maxEnergyFactor   = maxValue(energyFactors)
)

func maxValue(m map[string]float64) float64 {
	max := math.Inf(-1)
	for _, v := range m {
		if v > max {
			max = v
		}
	}
	return max
}

func lookup(table map[string]float64, key string, fallback float64) float64 {
	if v, ok := table[strings.ToLower(key)]; ok {
		return v
	}
	return fallback
}

// Scorer computes the six sustainability sub-metrics and their weighted
// aggregate. Pure and stateless beyond its configured weights and capacity.
type Scorer struct {
	weights  config.Weights
	capacity config.Capacity
}

// NewScorer validates the weights and capacity and returns a scorer.
func NewScorer(weights config.Weights, capacity config.Capacity) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	if err := capacity.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights, capacity: capacity}, nil
}

// PSI is the Package Sustainability Index: a per-package blend of material
// base score and density score, boosted for recyclable packages, averaged
// and scaled to [0,100]. An empty package list scores 0.
func (s *Scorer) PSI(packages []Package) float64 {
	if len(packages) == 0 {
		return 0
	}

	sum := 0.0
	for _, p := range packages {
		materialScore := lookup(materialBaseScores, p.MaterialType, defaultMaterialBase)
		volumeScore := math.Min(p.Density()/densityNorm, 1.0)

		bonus := 1.0
		if p.Recyclable {
			bonus = recyclableBonus
		}

		sum += (materialScore*0.4 + volumeScore*0.6) * bonus
	}

	return clamp(sum/float64(len(packages))*100, 0, 100)
}

// RES is the Route Efficiency Score: a directness ratio blended with the
// transport-mode factor. Without a routing provider the actual distance
// equals the great-circle distance, so directness is 1 for any positive
// distance and 0 when the distance is 0.
func (s *Scorer) RES(origin, destination Coordinate, transportMode string, distance float64) float64 {
	directness := 0.0
	if distance > 0 {
		directness = math.Min(distance/distance, 1.0)
	}

	modeScore := lookup(modeFactors, transportMode, defaultModeFactor)

	return clamp((directness*0.6+modeScore*0.4)*100, 0, 100)
}

// CEI is the Carbon Emission Index: emissions for this mode, inversely
// normalized against the worst mode. Zero distance or weight yields zero
// possible emissions and scores 100.
func (s *Scorer) CEI(distance float64, transportMode string, totalWeight float64) float64 {
	factor := lookup(emissionFactors, transportMode, defaultEmissionFactor)
	tonneKm := distance * totalWeight / 1000

	maxEmissions := tonneKm * maxEmissionFactor
	if maxEmissions <= 0 {
		return 100
	}

	emissions := tonneKm * factor
	return clamp((1-emissions/maxEmissions)*100, 0, 100)
}

// RUR is the Resource Utilization Rate: how much of the reference container
// this shipment fills, by volume and by weight, both capped at full
// utilization.
func (s *Scorer) RUR(packages []Package) float64 {
	totalVolume, totalWeight := 0.0, 0.0
	for _, p := range packages {
		totalVolume += p.Dimensions.Volume()
		totalWeight += p.Weight
	}

	volumeUtilization := math.Min(totalVolume/s.capacity.Volume, 1.0)
	weightUtilization := math.Min(totalWeight/s.capacity.MaxWeight, 1.0)

	return clamp((volumeUtilization*0.5+weightUtilization*0.5)*100, 0, 100)
}

// EER is the Energy Efficiency Rating: the same inverse normalization as CEI
// over energy consumption factors.
func (s *Scorer) EER(transportMode string, distance, totalWeight float64) float64 {
	factor := lookup(energyFactors, transportMode, defaultEnergyFactor)
	tonneKm := distance * totalWeight / 1000

	maxConsumption := tonneKm * maxEnergyFactor
	if maxConsumption <= 0 {
		return 100
	}

	consumption := tonneKm * factor
	return clamp((1-consumption/maxConsumption)*100, 0, 100)
}

// WRS is the Waste Reduction Score: a per-package blend of recyclability,
// material efficiency, and density-based packing optimization, averaged with
// package weight as the weighting. Zero total weight falls back to a plain
// mean; an empty list scores 0.
func (s *Scorer) WRS(packages []Package) float64 {
	if len(packages) == 0 {
		return 0
	}

	weightedSum, totalWeight, plainSum := 0.0, 0.0, 0.0
	for _, p := range packages {
		recyclableScore := nonRecyclableWRS
		if p.Recyclable {
			recyclableScore = recyclableWRS
		}

		materialScore := lookup(materialEfficiency, p.MaterialType, defaultMaterialEfficiency)
		optimizationScore := math.Min(p.Density()/densityNorm, 1.0) * 100

		packageScore := recyclableScore*0.4 + materialScore*0.3 + optimizationScore*0.3
		weightedSum += packageScore * p.Weight
		totalWeight += p.Weight
		plainSum += packageScore
	}

	score := plainSum / float64(len(packages))
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	return clamp(score, 0, 100)
}

// Metrics computes all six sub-scores for a shipment given its route
// distance.
func (s *Scorer) Metrics(shipment *Shipment, distance float64) SustainabilityMetrics {
	totalWeight := shipment.TotalWeight()

	return SustainabilityMetrics{
		PSI: s.PSI(shipment.Packages),
		RES: s.RES(shipment.Origin, shipment.Destination, shipment.TransportMode, distance),
		CEI: s.CEI(distance, shipment.TransportMode, totalWeight),
		RUR: s.RUR(shipment.Packages),
		EER: s.EER(shipment.TransportMode, distance, totalWeight),
		WRS: s.WRS(shipment.Packages),
	}
}

// Overall is the weighted combination of the six sub-scores, rounded to two
// decimals. The weights were validated to sum to 1.0 at construction, so the
// result is a convex combination of the inputs.
func (s *Scorer) Overall(m SustainabilityMetrics) float64 {
	weighted := m.PSI*s.weights.PSI +
		m.RES*s.weights.RES +
		m.CEI*s.weights.CEI +
		m.RUR*s.weights.RUR +
		m.EER*s.weights.EER +
		m.WRS*s.weights.WRS

	return math.Round(weighted*100) / 100
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
