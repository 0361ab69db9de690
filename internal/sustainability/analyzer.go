package sustainability

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/openfreight/ecoscore/internal/config"
	"github.com/openfreight/ecoscore/internal/enrich"
	"github.com/openfreight/ecoscore/internal/errors"
	"github.com/openfreight/ecoscore/internal/monitoring"
)

// EnrichmentSource is an optional per-shipment enrichment callable. See the
// enrich package for timeout, rate-limit and retry wrappers.
type EnrichmentSource = enrich.Source[*Shipment]

// routeOptimizationThresholdKm marks routes long enough to suggest
// alternatives for.
const routeOptimizationThresholdKm = 500

// oversizedDimensionCm marks a package dimension large enough to suggest
// repacking.
const oversizedDimensionCm = 50

// Analyzer composes the metric calculators, the aggregator, and an optional
// predictor into one per-shipment analysis. It performs no I/O of its own;
// enrichment sources are injected and bounded by the caller's context.
type Analyzer struct {
	scorer  *Scorer
	workers int
	sources map[string]EnrichmentSource
	logger  *monitoring.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithEnrichmentSource registers a named enrichment source. A slow or
// failing source degrades only its own field in the result.
func WithEnrichmentSource(name string, src EnrichmentSource) Option {
	return func(a *Analyzer) {
		a.sources[name] = src
	}
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = &monitoring.Logger{Logger: logger}
	}
}

// NewAnalyzer builds an analyzer from configuration. The configured weights
// and capacity are validated here so every later call is infallible on
// configuration grounds.
func NewAnalyzer(cfg config.Config, opts ...Option) (*Analyzer, error) {
	scorer, err := NewScorer(cfg.Weights, cfg.Capacity)
	if err != nil {
		return nil, err
	}

	workers := cfg.BatchWorkers
	if workers <= 0 {
		workers = 1
	}

	a := &Analyzer{
		scorer:  scorer,
		workers: workers,
		sources: make(map[string]EnrichmentSource),
		logger:  monitoring.NewLogger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Analyze runs the full analysis for one shipment: validation, the six
// sub-metrics, the weighted overall score, optimization opportunities, and,
// when a fitted predictor is supplied, the model prediction.
//
// A nil predictor leaves predictions absent. A non-nil unfitted predictor is
// a caller contract violation and fails with an invalid-state error rather
// than returning a silently zero-filled prediction.
func (a *Analyzer) Analyze(ctx context.Context, shipment *Shipment, predictor *Predictor) (*AnalysisResult, error) {
	if err := shipment.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	distance := Distance(shipment.Origin, shipment.Destination)
	metrics := a.scorer.Metrics(shipment, distance)

	result := &AnalysisResult{
		ShipmentID:    shipment.ShipmentID,
		Metrics:       metrics,
		OverallScore:  a.scorer.Overall(metrics),
		Opportunities: a.opportunities(shipment, distance),
	}

	if predictor != nil {
		if !predictor.Fitted() {
			return nil, errors.NewInvalidStateError(
				fmt.Sprintf("predictor supplied for shipment %q is not trained", shipment.ShipmentID))
		}
		prediction, err := predictor.Predict(shipment)
		if err != nil {
			return nil, err
		}
		result.Predictions = prediction
	}

	a.enrichResult(ctx, shipment, result)

	a.logger.AnalysisLogger(shipment.ShipmentID, result.OverallScore, result.Predictions != nil, time.Since(started))

	return result, nil
}

// AnalyzeBatch analyzes shipments independently across a bounded worker
// pool. Per-item failures are recorded alongside successful analyses; one
// shipment's error never aborts its siblings.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, shipments []Shipment, predictor *Predictor) *BatchResult {
	started := time.Now()
	batch := &BatchResult{
		BatchID: uuid.NewString(),
		Items:   make([]BatchItem, len(shipments)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i := range shipments {
		g.Go(func() error {
			shipment := &shipments[i]
			analysis, err := a.Analyze(ctx, shipment, predictor)

			item := BatchItem{ShipmentID: shipment.ShipmentID}
			if err != nil {
				item.Err = err
				item.Error = err.Error()
			} else {
				item.Analysis = analysis
			}
			batch.Items[i] = item
			return nil
		})
	}

	// Workers never return errors; Wait only orders the writes above.
	_ = g.Wait()

	for _, item := range batch.Items {
		if item.Err != nil {
			batch.Failed++
		} else {
			batch.Succeeded++
		}
	}

	a.logger.BatchLogger(batch.BatchID, len(shipments), batch.Succeeded, batch.Failed, time.Since(started))

	return batch
}

// enrichResult runs each registered source under the caller's context. A
// failing source is logged and skipped; the rest of the analysis stands.
func (a *Analyzer) enrichResult(ctx context.Context, shipment *Shipment, result *AnalysisResult) {
	for name, src := range a.sources {
		value, err := src(ctx, shipment)
		if err != nil {
			a.logger.EnrichmentFailure(name, shipment.ShipmentID, err)
			continue
		}
		if result.Enrichment == nil {
			result.Enrichment = make(map[string]any, len(a.sources))
		}
		result.Enrichment[name] = value
	}
}

// opportunities flags route and packaging optimizations worth surfacing
// alongside the scores.
func (a *Analyzer) opportunities(shipment *Shipment, distance float64) []Opportunity {
	var out []Opportunity

	if distance > routeOptimizationThresholdKm {
		out = append(out, Opportunity{
			Type:            "route_optimization",
			PotentialImpact: "high",
			Description:     "Alternative route could reduce distance by 15%",
		})
	}

	needsRepack := false
	for _, p := range shipment.Packages {
		if !p.Recyclable {
			needsRepack = true
			break
		}
		d := p.Dimensions
		if d.Length > oversizedDimensionCm || d.Width > oversizedDimensionCm || d.Height > oversizedDimensionCm {
			needsRepack = true
			break
		}
	}
	if needsRepack {
		out = append(out, Opportunity{
			Type:            "packaging_optimization",
			PotentialImpact: "medium",
			Description:     "Using recyclable materials could reduce waste by 25%",
		})
	}

	return out
}
