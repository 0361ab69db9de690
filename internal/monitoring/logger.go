package monitoring

import (
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with scoring-domain helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a JSON logger writing to stdout.
func NewLogger() *Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// AnalysisLogger logs a completed shipment analysis.
func (l *Logger) AnalysisLogger(shipmentID string, overallScore float64, predicted bool, duration time.Duration) {
	l.Info("Shipment analyzed",
		"shipment_id", shipmentID,
		"overall_score", overallScore,
		"predicted", predicted,
		"duration_ms", duration.Milliseconds(),
	)
}

// TrainingLogger logs a completed model training run.
func (l *Logger) TrainingLogger(samples int, trainScore, testScore float64, duration time.Duration) {
	l.Info("Predictor trained",
		"samples", samples,
		"train_score", trainScore,
		"test_score", testScore,
		"duration_ms", duration.Milliseconds(),
	)
}

// BatchLogger logs a batch analysis summary.
func (l *Logger) BatchLogger(batchID string, total, succeeded, failed int, duration time.Duration) {
	l.Info("Batch analyzed",
		"batch_id", batchID,
		"total", total,
		"succeeded", succeeded,
		"failed", failed,
		"duration_ms", duration.Milliseconds(),
	)
}

// EnrichmentFailure logs a degraded enrichment source.
func (l *Logger) EnrichmentFailure(source, shipmentID string, err error) {
	l.Warn("Enrichment source failed",
		"source", source,
		"shipment_id", shipmentID,
		"error", err,
	)
}
