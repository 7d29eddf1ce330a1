package history

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/repository"
)

var testNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestTracker() *Tracker {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	t := NewTracker(repository.NewMemoryHistoryRepository(), log)
	t.clock = func() time.Time { return testNow }
	return t
}

func TestTrackCorrectness(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()

	rec, err := tracker.Track(ctx, TrackRequest{
		PredictionID: "p1", Match: "A vs B", Predicted: "win", Actual: "Win",
		Confidence: 80, Section: models.VIPSectionGeneral,
	})
	require.NoError(t, err)
	assert.True(t, rec.WasCorrect, "comparison ignores case")
	assert.Equal(t, testNow, rec.PredictedAt)

	rec, err = tracker.Track(ctx, TrackRequest{
		PredictionID: "p2", Match: "C vs D", Predicted: "Draw", Actual: "Lose",
		Confidence: 60, Section: models.VIPSectionTwoPlus,
	})
	require.NoError(t, err)
	assert.False(t, rec.WasCorrect)
}

func TestTrackRejectsInvalidRecord(t *testing.T) {
	tracker := newTestTracker()

	_, err := tracker.Track(context.Background(), TrackRequest{
		PredictionID: "p1", Match: "A vs B", Predicted: "Win", Actual: "Win",
		Confidence: 150, Section: models.VIPSectionGeneral,
	})
	assert.ErrorIs(t, err, models.ErrInvalidRecord)

	_, err = tracker.Track(context.Background(), TrackRequest{
		PredictionID: "p1", Match: "A vs B", Predicted: "Win", Actual: "Win",
		Confidence: 50, Section: "10+",
	})
	assert.ErrorIs(t, err, models.ErrInvalidRecord)
}

func TestSeedAndHistory(t *testing.T) {
	tracker := newTestTracker()
	ctx := context.Background()
	require.NoError(t, tracker.Seed(ctx))

	all, err := tracker.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "pred_001", all[0].PredictionID)

	recent, err := tracker.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	twoPlus, err := tracker.Section(ctx, "2+", 30)
	require.NoError(t, err)
	require.Len(t, twoPlus, 2)
	for _, rec := range twoPlus {
		assert.Equal(t, models.VIPSectionTwoPlus, rec.VIPSection)
	}

	everything, err := tracker.Section(ctx, SectionAll, 30)
	require.NoError(t, err)
	assert.Len(t, everything, 4)

	summary := Summarize(all)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Correct)
	assert.Equal(t, 50.0, summary.Accuracy)
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, models.AccuracySummary{}, Summarize(nil))

	recs := []models.PredictionRecord{{WasCorrect: true}, {WasCorrect: false}, {WasCorrect: false}}
	s := Summarize(recs)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 33.3, s.Accuracy)
}

type stubPredictions map[string]models.Prediction

func (s stubPredictions) LastPrediction(matchID string) (models.Prediction, bool) {
	p, ok := s[matchID]
	return p, ok
}

type stubFeed struct {
	ch chan []models.LiveMatch
}

func (f *stubFeed) Subscribe() chan []models.LiveMatch { return f.ch }

func (f *stubFeed) Unsubscribe(chan []models.LiveMatch) {}

func samplePrediction() models.Prediction {
	return models.Prediction{
		MatchID:    "match_001",
		Match:      "Barcelona vs Real Madrid",
		Confidence: 62.4,
		Markets: models.BettingMarkets{
			MatchResult: models.MatchResultMarket{Win: 30, Draw: 26, Lose: 44},
		},
		PredictedAt: testNow.Add(-3 * time.Hour),
	}
}

func TestSettlerSettlesOnce(t *testing.T) {
	tracker := newTestTracker()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	settler := NewSettler(tracker, stubPredictions{"match_001": samplePrediction()}, log)
	ctx := context.Background()

	snapshot := []models.LiveMatch{
		{MatchID: "match_001", HomeScore: 1, AwayScore: 2, Status: models.LiveStatusFinished},
		{MatchID: "match_002", HomeScore: 0, AwayScore: 0, Status: models.LiveStatusFinished},
		{MatchID: "match_003", Status: models.LiveStatusLive},
	}

	assert.Equal(t, 1, settler.Settle(ctx, snapshot))
	assert.Equal(t, 0, settler.Settle(ctx, snapshot), "already settled")

	records, err := tracker.History(ctx, 30)
	require.NoError(t, err)
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "match_001", rec.MatchID)
	assert.Equal(t, "Lose", rec.PredictedOutcome)
	assert.Equal(t, "Lose", rec.ActualOutcome)
	assert.Equal(t, "1-2", rec.ActualScore)
	assert.True(t, rec.WasCorrect)
	assert.Equal(t, models.VIPSectionTwoPlus, rec.VIPSection)
}

func TestSettlerRun(t *testing.T) {
	tracker := newTestTracker()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	settler := NewSettler(tracker, stubPredictions{"match_001": samplePrediction()}, log)
	feed := &stubFeed{ch: make(chan []models.LiveMatch, 1)}

	done := make(chan struct{})
	go func() {
		settler.Run(context.Background(), feed)
		close(done)
	}()

	feed.ch <- []models.LiveMatch{{MatchID: "match_001", HomeScore: 2, AwayScore: 0, Status: models.LiveStatusFinished}}
	close(feed.ch)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("settler did not stop after feed closed")
	}

	records, err := tracker.History(context.Background(), 30)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].WasCorrect)
	assert.Equal(t, "Win", records[0].ActualOutcome)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "Win", ResultLabel(models.OutcomeHomeWin))
	assert.Equal(t, "Draw", ResultLabel(models.OutcomeDraw))
	assert.Equal(t, "Lose", ResultLabel(models.OutcomeAwayWin))
}
