// Package sustainability turns heterogeneous shipment records into a
// normalized 0-100 sustainability score and a regression-based forecast with
// per-feature importances.
package sustainability

import (
	"fmt"
	"time"

	"github.com/openfreight/ecoscore/internal/errors"
)

// Coordinate is a geographic point.
type Coordinate struct {
	Lat  float64 `json:"lat"`
	Long float64 `json:"long"`
}

func (c Coordinate) valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Long >= -180 && c.Long <= 180
}

// Dimensions are package dimensions in centimeters.
type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Volume is the raw length*width*height product.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Package is a single packed unit within a shipment.
type Package struct {
	PackageID    string     `json:"package_id"`
	MaterialType string     `json:"material_type"`
	Weight       float64    `json:"weight"`
	Dimensions   Dimensions `json:"dimensions"`
	Recyclable   bool       `json:"recyclable"`
}

// Density is weight over volume, 0 when the volume is 0.
func (p Package) Density() float64 {
	volume := p.Dimensions.Volume()
	if volume <= 0 {
		return 0
	}
	return p.Weight / volume
}

// Shipment is one inbound record: a route, a transport mode, and the
// packages on board. Records arrive from request bodies or CSV rows already
// mapped onto this shape; the core does not parse transport formats itself.
type Shipment struct {
	ShipmentID    string     `json:"shipment_id"`
	Origin        Coordinate `json:"origin"`
	Destination   Coordinate `json:"destination"`
	TransportMode string     `json:"transport_mode"`
	Packages      []Package  `json:"packages"`
	Timestamp     time.Time  `json:"timestamp"`
}

// TotalWeight sums package weights in kilograms.
func (s *Shipment) TotalWeight() float64 {
	total := 0.0
	for _, p := range s.Packages {
		total += p.Weight
	}
	return total
}

// TotalVolume sums raw package volumes.
func (s *Shipment) TotalVolume() float64 {
	total := 0.0
	for _, p := range s.Packages {
		total += p.Dimensions.Volume()
	}
	return total
}

// Validate checks the structural invariants a shipment must satisfy before
// entering the scoring core. Optional per-field oddities inside calculators
// degrade gracefully instead; this catches only violations that would make
// the record meaningless.
func (s *Shipment) Validate() error {
	fields := map[string]string{}

	if s.ShipmentID == "" {
		fields["shipment_id"] = "must not be empty"
	}
	if !s.Origin.valid() {
		fields["origin"] = fmt.Sprintf("coordinates out of range: lat=%v long=%v", s.Origin.Lat, s.Origin.Long)
	}
	if !s.Destination.valid() {
		fields["destination"] = fmt.Sprintf("coordinates out of range: lat=%v long=%v", s.Destination.Lat, s.Destination.Long)
	}
	if len(s.Packages) == 0 {
		fields["packages"] = "must contain at least one package"
	}
	for i, p := range s.Packages {
		if p.Weight <= 0 {
			fields[fmt.Sprintf("packages[%d].weight", i)] = fmt.Sprintf("must be positive, got %v", p.Weight)
		}
		if p.Dimensions.Length <= 0 || p.Dimensions.Width <= 0 || p.Dimensions.Height <= 0 {
			fields[fmt.Sprintf("packages[%d].dimensions", i)] = "all dimensions must be positive"
		}
	}

	if len(fields) > 0 {
		return errors.NewValidationErrorWithFields(
			fmt.Sprintf("invalid shipment %q", s.ShipmentID), fields)
	}
	return nil
}

// SustainabilityMetrics holds the six sub-scores, each in [0,100]. Derived
// and ephemeral: recomputed on every analysis, never persisted by the core.
type SustainabilityMetrics struct {
	PSI float64 `json:"package_sustainability_index"`
	RES float64 `json:"route_efficiency_score"`
	CEI float64 `json:"carbon_emission_index"`
	RUR float64 `json:"resource_utilization_rate"`
	EER float64 `json:"energy_efficiency_rating"`
	WRS float64 `json:"waste_reduction_score"`
}

// Prediction is the learned-model output for one shipment.
type Prediction struct {
	PredictedScore     float64            `json:"predicted_score"`
	FeatureImportances map[string]float64 `json:"feature_importances"`
}

// TrainReport holds model performance after a training run: R-squared on the
// training split and on the held-out split.
type TrainReport struct {
	TrainScore float64 `json:"train_score"`
	TestScore  float64 `json:"test_score"`
}

// Opportunity is an identified optimization suggestion.
type Opportunity struct {
	Type            string `json:"type"`
	PotentialImpact string `json:"potential_impact"`
	Description     string `json:"description"`
}

// AnalysisResult is the full per-shipment analysis: the six sub-scores, the
// weighted overall score, and, when a fitted predictor was supplied, the
// model prediction. Plain nested values only, suitable for direct JSON
// serialization.
type AnalysisResult struct {
	ShipmentID    string                `json:"shipment_id"`
	Metrics       SustainabilityMetrics `json:"metrics"`
	OverallScore  float64               `json:"overall_sustainability_score"`
	Predictions   *Prediction           `json:"predictions,omitempty"`
	Opportunities []Opportunity         `json:"optimization_opportunities,omitempty"`
	Enrichment    map[string]any        `json:"enrichment,omitempty"`
}

// BatchItem is one shipment's outcome within a batch. Exactly one of
// Analysis and Error is set.
type BatchItem struct {
	ShipmentID string          `json:"shipment_id"`
	Analysis   *AnalysisResult `json:"analysis,omitempty"`
	Error      string          `json:"error,omitempty"`

	// Err carries the typed error for in-process callers; the serialized
	// form exposes only the message.
	Err error `json:"-"`
}

// BatchResult aggregates per-item outcomes. One shipment's failure never
// aborts its siblings.
type BatchResult struct {
	BatchID   string      `json:"batch_id"`
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}
