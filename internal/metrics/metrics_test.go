package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordPredictionBatch(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(PredictionsGeneratedTotal)

	RecordPredictionBatch(6, 0.002)

	assert.Equal(t, before+6, testutil.ToFloat64(PredictionsGeneratedTotal))
}

func TestRecordLiveUpdate(t *testing.T) {
	InitRegistry()

	RecordLiveUpdate(3, 2, 1)

	assert.Equal(t, 3.0, testutil.ToFloat64(LiveMatches.WithLabelValues("upcoming")))
	assert.Equal(t, 2.0, testutil.ToFloat64(LiveMatches.WithLabelValues("live")))
	assert.Equal(t, 1.0, testutil.ToFloat64(LiveMatches.WithLabelValues("finished")))
}

func TestRecordHistoryRecord(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(HistoryRecordsTotal.WithLabelValues("true"))

	RecordHistoryRecord(true)

	assert.Equal(t, before+1, testutil.ToFloat64(HistoryRecordsTotal.WithLabelValues("true")))
}

func TestScraperMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBetsScraped("history", 4)
		RecordBlockedRequest("request")
		RecordScrapeDuration("login", 2.5)
	})
}

func TestPredictionMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordPredictionConfidence("home_win", 71.3)
		RecordSlipSelections("2+", 2)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()
	RecordDashboardRequest("/live")

	handler := Handler()
	require.Implements(t, (*http.Handler)(nil), handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "safebet_dashboard_requests_total")
}

func BenchmarkRecordPredictionBatch(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordPredictionBatch(6, 0.001)
	}
}
