// Package logger provides LLM analysis logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// AnalysisLogger provides dedicated logging for LLM bet analysis.
type AnalysisLogger struct {
	*logrus.Entry
}

// NewAnalysisLogger creates a new analysis logger.
func NewAnalysisLogger(baseLogger *logrus.Logger) *AnalysisLogger {
	return &AnalysisLogger{
		Entry: baseLogger.WithField("component", "analysis"),
	}
}

// LogAnalysisRequest logs a completed analysis call.
func (al *AnalysisLogger) LogAnalysisRequest(kind, model string, cacheHit bool, latencyMs float64) {
	al.WithFields(logrus.Fields{
		"kind":       kind,
		"model":      model,
		"cache_hit":  cacheHit,
		"latency_ms": latencyMs,
	}).Info("Bet analysis completed")
}

// LogAnalysisFailure logs an analysis call that fell back to the neutral result.
func (al *AnalysisLogger) LogAnalysisFailure(kind, model string, err error) {
	al.WithFields(logrus.Fields{
		"kind":  kind,
		"model": model,
	}).WithError(err).Error("Bet analysis failed, using neutral result")
}

// LogBatch logs the outcome of a batch analysis run.
func (al *AnalysisLogger) LogBatch(total, failed int, averageWinProbability float64) {
	al.WithFields(logrus.Fields{
		"total":                   total,
		"failed":                  failed,
		"average_win_probability": averageWinProbability,
	}).Info("Batch analysis completed")
}
