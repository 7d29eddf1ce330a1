package analyzer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysisRequestsTotal tracks analysis calls by kind and result
	AnalysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "safebet_llm_analysis_total",
			Help: "Total number of LLM bet analyses",
		},
		[]string{"kind", "status"},
	)

	// AnalysisLatency tracks chat completion latency
	AnalysisLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "safebet_llm_analysis_latency_seconds",
			Help:    "LLM analysis latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	// AnalysisCacheHitRatio tracks the analysis cache hit ratio
	AnalysisCacheHitRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "safebet_llm_cache_hit_ratio",
			Help: "LLM analysis cache hit ratio",
		},
	)
)
