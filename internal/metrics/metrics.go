// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "safebet"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "predictions_generated_total",
		Help:      "Total number of fixture predictions generated",
	})
	LiveUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "live_updates_total",
		Help:      "Total number of live-state recomputations",
	})
	HistoryRecordsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_records_total",
		Help:      "Total number of settled prediction records by correctness",
	}, []string{"correct"})
	DashboardRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_requests_total",
		Help:      "Total number of dashboard requests by route",
	}, []string{"route"})
	NotificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of outbound notifications by kind and status",
	}, []string{"kind", "status"})
)

// Gauge metrics
var (
	LiveMatches = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "live_matches",
		Help:      "Number of tracked matches by live status",
	}, []string{"status"})
	ActiveBets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_bets",
		Help:      "Number of active bets on the scraped account",
	})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Number of connected live-score websocket clients",
	})
)

// Histogram metrics
var (
	PredictionBatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "prediction_batch_duration_seconds",
		Help:      "Duration of a scoring pass over the upcoming fixtures in seconds",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsGeneratedTotal)
		registry.MustRegister(LiveUpdatesTotal)
		registry.MustRegister(HistoryRecordsTotal)
		registry.MustRegister(DashboardRequestsTotal)
		registry.MustRegister(NotificationsTotal)

		registry.MustRegister(LiveMatches)
		registry.MustRegister(ActiveBets)
		registry.MustRegister(WebsocketClients)

		registry.MustRegister(PredictionBatchDuration)

		// prediction metrics
		registry.MustRegister(PredictionConfidence)
		registry.MustRegister(SlipSelectionsTotal)

		// scraper metrics
		registry.MustRegister(BetsScrapedTotal)
		registry.MustRegister(BlockedRequestsTotal)
		registry.MustRegister(ScrapeDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler. It also gathers metrics that
// packages register on the default registry through promauto.
func Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// RecordPredictionBatch records a scoring pass.
func RecordPredictionBatch(count int, durationSeconds float64) {
	PredictionsGeneratedTotal.Add(float64(count))
	PredictionBatchDuration.Observe(durationSeconds)
}

// RecordLiveUpdate records a live-state recomputation and the resulting status counts.
func RecordLiveUpdate(upcoming, live, finished int) {
	LiveUpdatesTotal.Inc()
	LiveMatches.WithLabelValues("upcoming").Set(float64(upcoming))
	LiveMatches.WithLabelValues("live").Set(float64(live))
	LiveMatches.WithLabelValues("finished").Set(float64(finished))
}

// RecordHistoryRecord records a settled prediction.
func RecordHistoryRecord(correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	HistoryRecordsTotal.WithLabelValues(label).Inc()
}

// RecordDashboardRequest records a dashboard request.
func RecordDashboardRequest(route string) {
	DashboardRequestsTotal.WithLabelValues(route).Inc()
}

// RecordNotification records an outbound notification attempt.
func RecordNotification(kind, status string) {
	NotificationsTotal.WithLabelValues(kind, status).Inc()
}

// UpdateActiveBets updates the active bets gauge.
func UpdateActiveBets(count int) {
	ActiveBets.Set(float64(count))
}

// UpdateWebsocketClients updates the websocket client gauge.
func UpdateWebsocketClients(count int) {
	WebsocketClients.Set(float64(count))
}
