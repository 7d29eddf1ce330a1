// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for fixture predictions.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPredictionBatch logs a scoring pass over the upcoming fixtures.
func (pl *PredictionLogger) LogPredictionBatch(fixtures int, topConfidence float64, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"fixtures":       fixtures,
		"top_confidence": topConfidence,
		"duration_ms":    durationMs,
	}).Debug("Predictions generated")
}

// LogSlipGeneration logs an odd-range slip selection.
func (pl *PredictionLogger) LogSlipGeneration(minOdd float64, maxOdd *float64, selected int) {
	fields := logrus.Fields{
		"min_odd":  minOdd,
		"selected": selected,
	}
	if maxOdd != nil {
		fields["max_odd"] = *maxOdd
	}
	pl.WithFields(fields).Debug("Betting slips selected")
}

// LogSettlement logs a prediction compared against a final result.
func (pl *PredictionLogger) LogSettlement(matchID, predicted, actual, score string, correct bool) {
	pl.WithFields(logrus.Fields{
		"match_id":    matchID,
		"predicted":   predicted,
		"actual":      actual,
		"score":       score,
		"was_correct": correct,
		"event_type":  "settlement",
	}).Info("Prediction settled")
}
