// Package metrics defines scraper-specific metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BetsScrapedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bets_scraped_total",
		Help:      "Total number of bet records scraped by source page",
	}, []string{"source"})

	BlockedRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blocked_requests_total",
		Help:      "Total number of fund-affecting requests blocked by kind",
	}, []string{"kind"})

	ScrapeDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scrape_duration_seconds",
		Help:      "Duration of scrape operations in seconds",
		Buckets:   []float64{1, 2, 5, 10, 20, 30, 60, 120},
	}, []string{"operation"})
)

// RecordBetsScraped records scraped bet records for a source page.
func RecordBetsScraped(source string, count int) {
	BetsScrapedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordBlockedRequest records a blocked request or navigation.
func RecordBlockedRequest(kind string) {
	BlockedRequestsTotal.WithLabelValues(kind).Inc()
}

// RecordScrapeDuration records how long a scrape operation took.
func RecordScrapeDuration(operation string, durationSeconds float64) {
	ScrapeDuration.WithLabelValues(operation).Observe(durationSeconds)
}
