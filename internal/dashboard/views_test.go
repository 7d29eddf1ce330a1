package dashboard

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/models"
)

func TestGroupSlips(t *testing.T) {
	var preds []models.Prediction
	for _, c := range []float64{95, 91, 88, 85, 83, 82, 81, 80, 80, 80, 80, 80, 80, 80, 80, 80, 79} {
		preds = append(preds, samplePrediction("A vs B", c))
	}

	slips := GroupSlips(preds, twoPlusMinConfidence, twoPlusSlipSize, TwoPlusBadge)
	require.Len(t, slips, maxSlips, "16 eligible picks in threes capped at five slips")
	for i, s := range slips {
		assert.Equal(t, i+1, s.Number)
		assert.Len(t, s.Picks, 3)
	}
	assert.Equal(t, "TOP", slips[0].Picks[0].Badge)
	assert.Equal(t, "HIGH", slips[1].Picks[0].Badge)
	assert.Equal(t, "Draw", slips[0].Picks[0].RecommendedBet)
	assert.InDelta(t, 41.7, slips[0].Picks[0].Probability, 1e-9)

	partial := GroupSlips(preds[:5], fivePlusMinConfidence, fivePlusSlipSize, FivePlusBadge)
	require.Len(t, partial, 3)
	assert.Len(t, partial[2].Picks, 1)

	assert.Empty(t, GroupSlips(preds[16:], twoPlusMinConfidence, twoPlusSlipSize, TwoPlusBadge))
}

func TestBadges(t *testing.T) {
	tests := []struct {
		confidence float64
		two, five  string
	}{
		{95, "TOP", "LEGEND"},
		{85, "HIGH", "LEGEND"},
		{80, "HIGH", "PREMIUM"},
		{75, "MED", "PREMIUM"},
		{70, "MED", "GOOD"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.two, TwoPlusBadge(tt.confidence), "2+ %v", tt.confidence)
		assert.Equal(t, tt.five, FivePlusBadge(tt.confidence), "5+ %v", tt.confidence)
	}
}

func TestTopSlipEntries(t *testing.T) {
	entries := []models.SlipEntry{
		{Match: "a", Confidence: 95}, {Match: "b", Confidence: 60},
		{Match: "c", Confidence: 90}, {Match: "d", Confidence: 99}, {Match: "e", Confidence: 92},
	}
	got := TopSlipEntries(entries, slipEntryMinConfidence, slipEntriesShown)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "c", "d"}, []string{got[0].Match, got[1].Match, got[2].Match})
	assert.Empty(t, TopSlipEntries(nil, 90, 3))
}

func TestSplitLive(t *testing.T) {
	live, finished, upcoming := SplitLive([]models.LiveMatch{
		{MatchID: "1", Status: models.LiveStatusLive},
		{MatchID: "2", Status: models.LiveStatusUpcoming},
		{MatchID: "3", Status: models.LiveStatusFinished},
		{MatchID: "4", Status: models.LiveStatusLive},
	})
	assert.Len(t, live, 2)
	assert.Len(t, finished, 1)
	assert.Len(t, upcoming, 1)
}

func TestSessionStore(t *testing.T) {
	store := NewSessionStore(config.DashboardConfig{CookieName: "sid", SessionTTLMinutes: 5}, Settings{RefreshIntervalMinutes: 10})

	rec := httptest.NewRecorder()
	sess := store.Load(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, 10, sess.Settings.RefreshIntervalMinutes)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.Equal(t, sess.ID, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	sess.AutoUpdate = true
	store.Save(sess)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	again := store.Load(rec, req)
	assert.Equal(t, sess.ID, again.ID)
	assert.True(t, again.AutoUpdate)
	assert.Empty(t, rec.Result().Cookies(), "existing session keeps its cookie")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: "expired"})
	fresh := store.Load(httptest.NewRecorder(), req)
	assert.NotEqual(t, "expired", fresh.ID)
	assert.Equal(t, 2, store.Count())
}

func TestIsLocalPath(t *testing.T) {
	assert.True(t, isLocalPath("/live"))
	assert.True(t, isLocalPath("/"))
	assert.False(t, isLocalPath(""))
	assert.False(t, isLocalPath("//evil.example"))
	assert.False(t, isLocalPath("/\\evil.example"))
	assert.False(t, isLocalPath("https://evil.example"))
}
