package predictor

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/datasource"
	"github.com/yourusername/safebet-analyst/internal/fixtures"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/random"
)

var testAnchor = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) *Service {
	t.Helper()
	store, err := fixtures.NewStore("static", datasource.StaticFixtures(testAnchor))
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)

	svc := NewService(NewScorer(random.Neutral{}), store, 0, log)
	svc.clock = func() time.Time { return testAnchor }
	return svc
}

func matchIDs(preds []models.Prediction) []string {
	ids := make([]string, 0, len(preds))
	for _, p := range preds {
		ids = append(ids, p.MatchID)
	}
	return ids
}

func TestServiceUpcomingMatches(t *testing.T) {
	svc := newTestService(t)
	assert.Len(t, svc.UpcomingMatches(), 6)

	svc.clock = func() time.Time { return testAnchor.Add(30 * time.Hour) }
	assert.Len(t, svc.UpcomingMatches(), 3)
}

func TestServicePredictAllSortedByConfidence(t *testing.T) {
	preds, err := newTestService(t).PredictAll()
	require.NoError(t, err)

	require.Len(t, preds, 6)
	assert.Equal(t, []string{"match_004", "match_005", "match_003", "match_001", "match_002", "match_006"}, matchIDs(preds))
	for i := 1; i < len(preds); i++ {
		assert.GreaterOrEqual(t, preds[i-1].Confidence, preds[i].Confidence)
	}
}

func TestServicePredictTopMatches(t *testing.T) {
	svc := newTestService(t)

	top, err := svc.PredictTopMatches(DefaultTopCount)
	require.NoError(t, err)
	assert.Equal(t, []string{"match_004", "match_005", "match_003"}, matchIDs(top))

	all, err := svc.PredictTopMatches(50)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestServiceConfidenceBands(t *testing.T) {
	svc := newTestService(t)

	high, err := svc.HighConfidence(DefaultHighConfidence)
	require.NoError(t, err)
	assert.Equal(t, []string{"match_004", "match_005", "match_003"}, matchIDs(high))

	accurate, err := svc.HighAccuracy(0)
	require.NoError(t, err)
	assert.Equal(t, []string{"match_004"}, matchIDs(accurate))
}

func TestServicePredictMatch(t *testing.T) {
	svc := newTestService(t)

	p, err := svc.PredictMatch("match_002")
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeAwayWin, p.Outcome)

	_, err = svc.PredictMatch("nope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	last, ok := svc.LastPrediction("match_002")
	require.True(t, ok)
	assert.Equal(t, p.Confidence, last.Confidence)
	_, ok = svc.LastPrediction("match_003")
	assert.False(t, ok)
}

func TestServiceTwoPlus(t *testing.T) {
	svc := newTestService(t)

	preds, err := svc.TwoPlus()
	require.NoError(t, err)
	assert.Equal(t, []string{"match_002", "match_006"}, matchIDs(preds))
	assert.Equal(t, 2.75, preds[0].CalculatedOdd)
	assert.Equal(t, 2.84, preds[1].CalculatedOdd)
	for _, p := range preds {
		assert.GreaterOrEqual(t, p.CalculatedOdd, TwoPlusOdd)
	}
}

func TestServiceFivePlusIsEmpty(t *testing.T) {
	svc := newTestService(t)

	preds, err := svc.FivePlus()
	require.NoError(t, err)
	assert.Empty(t, preds)

	best, err := svc.FivePlusBest(DefaultBestCount)
	require.NoError(t, err)
	assert.Empty(t, best)
}

func TestServiceSlipsByOddRangeWithMax(t *testing.T) {
	svc := newTestService(t)

	maxOdd := 2.8
	preds, err := svc.SlipsByOddRange(TwoPlusOdd, &maxOdd)
	require.NoError(t, err)
	assert.Equal(t, []string{"match_002"}, matchIDs(preds))

	all, err := svc.SlipsByOddRange(0, nil)
	require.NoError(t, err)
	assert.Len(t, all, 6)
}

func TestServiceSlipFormat(t *testing.T) {
	entries, err := newTestService(t).SlipFormat(TwoPlusOdd)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	e := entries[0]
	assert.Equal(t, "match_002", e.MatchID)
	assert.Equal(t, "Real Madrid vs Barcelona", e.Match)
	assert.Equal(t, "Lose", e.RecommendedBet)
	assert.Equal(t, 36.3, e.Probability)
	assert.Equal(t, 2.75, e.ImpliedOdd)
	assert.Equal(t, models.RiskHigh, e.RiskLevel)
	assert.Len(t, e.KeyFactors, 3)
}

func TestServiceTwoPlusBest(t *testing.T) {
	best, err := newTestService(t).TwoPlusBest(1)
	require.NoError(t, err)
	assert.Equal(t, []string{"match_002"}, matchIDs(best))
}

func TestServiceFullAnalysis(t *testing.T) {
	svc := newTestService(t)
	list := datasource.StaticFixtures(testAnchor)

	analysis, err := svc.FullAnalysis(list[0])
	require.NoError(t, err)
	assert.Equal(t, "Manchester United vs Liverpool", analysis.Match)
	assert.Len(t, analysis.AllOutcomes.OverUnder, 4)
	assert.NotEmpty(t, analysis.AllOutcomes.CorrectScores)
}

func TestFilterByOddRangeDoesNotMutateInput(t *testing.T) {
	preds, err := newTestService(t).PredictAll()
	require.NoError(t, err)

	out := FilterByOddRange(preds, 0, nil)
	require.Len(t, out, len(preds))
	for i := range preds {
		assert.Zero(t, preds[i].CalculatedOdd)
		assert.NotZero(t, out[i].CalculatedOdd)
	}
}
