// Package metrics defines prediction-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PredictionConfidence = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_confidence",
		Help:      "Confidence of generated predictions by outcome",
		Buckets:   []float64{50, 55, 60, 65, 70, 75, 80, 85, 90, 95, 100},
	}, []string{"outcome"})

	SlipSelectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slip_selections_total",
		Help:      "Total number of predictions selected into betting slips by VIP section",
	}, []string{"section"})
)

// RecordPredictionConfidence records the confidence of a single prediction.
func RecordPredictionConfidence(outcome string, confidence float64) {
	PredictionConfidence.WithLabelValues(outcome).Observe(confidence)
}

// RecordSlipSelections records slip selections for a VIP section.
func RecordSlipSelections(section string, count int) {
	SlipSelectionsTotal.WithLabelValues(section).Add(float64(count))
}
