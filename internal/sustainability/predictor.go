package sustainability

import (
	"fmt"
	"sync"
	"time"

	"github.com/openfreight/ecoscore/internal/config"
	"github.com/openfreight/ecoscore/internal/errors"
	"github.com/openfreight/ecoscore/internal/monitoring"
	"github.com/openfreight/ecoscore/internal/regress"
)

// Predictor is the trainable sustainability regression model. It starts
// untrained; a successful Train fits a feature scaler and a tree ensemble
// and moves it to the fitted state. Training again replaces the prior fit.
//
// Reads are safe to run concurrently once training completes; Train holds
// the write lock so it never runs concurrently with a Predict that assumes a
// stable fitted state.
type Predictor struct {
	mu sync.RWMutex

	params       regress.Params
	testFraction float64
	encoder      Encoder
	logger       *monitoring.Logger

	scaler *regress.Scaler
	forest *regress.Forest
	fitted bool
}

// NewPredictor creates an untrained predictor with the given hyperparameters.
func NewPredictor(cfg config.Predictor) *Predictor {
	return &Predictor{
		params: regress.Params{
			Trees:   cfg.Trees,
			Seed:    cfg.Seed,
			MinLeaf: cfg.MinLeaf,
		},
		testFraction: cfg.TestFraction,
		logger:       monitoring.NewLogger(),
	}
}

// Fitted reports whether a successful Train has completed.
func (p *Predictor) Fitted() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.fitted
}

// Train fits the model on historical shipments and their known scores.
// Shipments and scores must be non-empty and of equal length. Features are
// encoded per shipment, the scaler is fitted on the training side of a
// seeded 80/20 split, and the forest is fitted on the scaled training rows.
// The report carries R-squared for both splits.
func (p *Predictor) Train(shipments []Shipment, scores []float64) (TrainReport, error) {
	started := time.Now()

	if len(shipments) == 0 || len(scores) == 0 {
		return TrainReport{}, errors.NewDataError("training set must not be empty", nil)
	}
	if len(shipments) != len(scores) {
		return TrainReport{}, errors.NewDataError(
			fmt.Sprintf("got %d shipments but %d scores", len(shipments), len(scores)), nil)
	}

	X := make([][]float64, len(shipments))
	for i := range shipments {
		row, err := p.encoder.Encode(&shipments[i])
		if err != nil {
			return TrainReport{}, errors.NewDataError(
				fmt.Sprintf("cannot encode training shipment %q", shipments[i].ShipmentID), err)
		}
		X[i] = row
	}

	trainIdx, testIdx, err := regress.TrainTestSplit(len(X), p.testFraction, p.params.Seed)
	if err != nil {
		return TrainReport{}, errors.NewDataError("training set too small to split", err)
	}

	trainX, trainY := gather(X, scores, trainIdx)
	testX, testY := gather(X, scores, testIdx)

	scaler, err := regress.FitScaler(trainX)
	if err != nil {
		return TrainReport{}, errors.NewDataError("failed to fit feature scaler", err)
	}

	scaledTrainX, err := scaler.TransformAll(trainX)
	if err != nil {
		return TrainReport{}, errors.NewDataError("failed to scale training features", err)
	}
	scaledTestX, err := scaler.TransformAll(testX)
	if err != nil {
		return TrainReport{}, errors.NewDataError("failed to scale test features", err)
	}

	forest, err := regress.FitForest(scaledTrainX, trainY, p.params)
	if err != nil {
		return TrainReport{}, errors.NewDataError("failed to fit regression model", err)
	}

	trainPred, err := forest.PredictAll(scaledTrainX)
	if err != nil {
		return TrainReport{}, errors.NewDataError("failed to score training split", err)
	}
	testPred, err := forest.PredictAll(scaledTestX)
	if err != nil {
		return TrainReport{}, errors.NewDataError("failed to score test split", err)
	}

	p.mu.Lock()
	p.scaler = scaler
	p.forest = forest
	p.fitted = true
	p.mu.Unlock()

	report := TrainReport{
		TrainScore: regress.RSquared(trainPred, trainY),
		TestScore:  regress.RSquared(testPred, testY),
	}

	p.logger.TrainingLogger(len(shipments), report.TrainScore, report.TestScore, time.Since(started))

	return report, nil
}

// Predict returns the model score and per-feature importances for a
// shipment. Fails with an invalid-state error when called before Train.
func (p *Predictor) Predict(shipment *Shipment) (*Prediction, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.fitted {
		return nil, errors.NewInvalidStateError("model must be trained before making predictions")
	}

	row, err := p.encoder.Encode(shipment)
	if err != nil {
		return nil, err
	}

	scaled, err := p.scaler.Transform(row)
	if err != nil {
		return nil, errors.NewDataError("failed to scale features", err)
	}

	predicted, err := p.forest.Predict(scaled)
	if err != nil {
		return nil, errors.NewDataError("failed to predict", err)
	}

	importances := make(map[string]float64, NumFeatures)
	for i, name := range FeatureNames {
		importances[name] = p.forest.Importances[i]
	}

	return &Prediction{
		PredictedScore:     predicted,
		FeatureImportances: importances,
	}, nil
}

// Snapshot captures the fitted model state for persistence.
func (p *Predictor) Snapshot() (*regress.Snapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.fitted {
		return nil, errors.NewInvalidStateError("cannot snapshot an untrained model")
	}

	return &regress.Snapshot{
		FeatureNames: FeatureNames,
		Scaler:       p.scaler,
		Forest:       p.forest,
	}, nil
}

// Restore installs a previously saved snapshot, moving the predictor to the
// fitted state.
func (p *Predictor) Restore(snap *regress.Snapshot) error {
	if snap == nil || snap.Scaler == nil || snap.Forest == nil {
		return errors.NewDataError("snapshot is incomplete", nil)
	}
	if snap.Forest.NumFeatures != NumFeatures {
		return errors.NewDataError(
			fmt.Sprintf("snapshot has %d features, expected %d", snap.Forest.NumFeatures, NumFeatures), nil)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.scaler = snap.Scaler
	p.forest = snap.Forest
	p.fitted = true
	return nil
}

func gather(X [][]float64, y []float64, idx []int) ([][]float64, []float64) {
	outX := make([][]float64, len(idx))
	outY := make([]float64, len(idx))
	for i, j := range idx {
		outX[i] = X[j]
		outY[i] = y[j]
	}
	return outX, outY
}
