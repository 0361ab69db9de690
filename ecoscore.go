// Package ecoscore scores freight shipments on sustainability. It combines
// six deterministic sub-metrics into a weighted overall score, flags
// optimization opportunities, and optionally attaches predictions from a
// regression model trained on historical shipments.
//
// This file is the public surface; the implementation lives under internal/.
package ecoscore

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/openfreight/ecoscore/internal/config"
	"github.com/openfreight/ecoscore/internal/encoding"
	"github.com/openfreight/ecoscore/internal/enrich"
	"github.com/openfreight/ecoscore/internal/errors"
	"github.com/openfreight/ecoscore/internal/regress"
	"github.com/openfreight/ecoscore/internal/sustainability"
)

// Domain types.
type (
	Coordinate            = sustainability.Coordinate
	Dimensions            = sustainability.Dimensions
	Package               = sustainability.Package
	Shipment              = sustainability.Shipment
	SustainabilityMetrics = sustainability.SustainabilityMetrics
	Prediction            = sustainability.Prediction
	TrainReport           = sustainability.TrainReport
	Opportunity           = sustainability.Opportunity
	AnalysisResult        = sustainability.AnalysisResult
	BatchItem             = sustainability.BatchItem
	BatchResult           = sustainability.BatchResult
)

// Analysis entry points.
type (
	Analyzer         = sustainability.Analyzer
	Predictor        = sustainability.Predictor
	Option           = sustainability.Option
	EnrichmentSource = sustainability.EnrichmentSource
)

// Configuration.
type (
	Config  = config.Config
	Weights = config.Weights
)

// DefaultConfig returns the built-in configuration: the standard metric
// weights, the reference container capacity, and a seeded 100-tree model.
func DefaultConfig() Config {
	return config.Default()
}

// LoadConfig reads a YAML configuration file over the defaults.
func LoadConfig(path string) (Config, error) {
	return config.Load(path)
}

// NewAnalyzer builds an analyzer from configuration.
func NewAnalyzer(cfg Config, opts ...Option) (*Analyzer, error) {
	return sustainability.NewAnalyzer(cfg, opts...)
}

// NewPredictor creates an untrained predictor with the configured
// hyperparameters.
func NewPredictor(cfg Config) *Predictor {
	return sustainability.NewPredictor(cfg.Predictor)
}

// Analyzer options.
var (
	WithEnrichmentSource = sustainability.WithEnrichmentSource
	WithLogger           = sustainability.WithLogger
)

// Distance returns the great-circle distance between two coordinates in
// kilometers.
func Distance(origin, destination Coordinate) float64 {
	return sustainability.Distance(origin, destination)
}

// WithTimeout bounds each call to an enrichment source with its own deadline.
func WithTimeout(src EnrichmentSource, d time.Duration) EnrichmentSource {
	return enrich.WithTimeout(src, d)
}

// WithRateLimit blocks an enrichment source until the limiter permits the
// call, or the context expires.
func WithRateLimit(src EnrichmentSource, limiter *rate.Limiter) EnrichmentSource {
	return enrich.WithRateLimit(src, limiter)
}

// WithRetry retries a failing enrichment source up to attempts times with a
// fixed backoff between tries.
func WithRetry(src EnrichmentSource, attempts int, backoff time.Duration) EnrichmentSource {
	return enrich.WithRetry(src, attempts, backoff)
}

// Marshal encodes v as JSON with non-finite floats replaced by null, so
// analysis results serialize cleanly even when a value degenerates to NaN
// or infinity.
func Marshal(v any) ([]byte, error) {
	return encoding.Marshal(v)
}

// SafeFloat returns a pointer to f, or nil if f is NaN or infinite.
func SafeFloat(f float64) *float64 {
	return encoding.SafeFloat(f)
}

// ModelStore persists trained model snapshots as JSON files.
type ModelStore = regress.Store

// ModelSnapshot is the serializable state of a fitted predictor.
type ModelSnapshot = regress.Snapshot

// NewModelStore creates a store rooted at dataDir.
func NewModelStore(dataDir string) *ModelStore {
	return regress.NewStore(dataDir)
}

// Error classification helpers.
var (
	IsValidationError    = errors.IsValidation
	IsConfigurationError = errors.IsConfiguration
	IsDataError          = errors.IsData
	IsInvalidStateError  = errors.IsInvalidState
)
