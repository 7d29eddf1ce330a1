package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/database"
	"github.com/yourusername/safebet-analyst/internal/models"
)

func sampleRecord(id, matchID string, predictedAt time.Time) *models.PredictionRecord {
	return &models.PredictionRecord{
		PredictionID:     id,
		MatchID:          matchID,
		Match:            "Home vs Away",
		PredictedOutcome: "Win",
		ActualOutcome:    "Win",
		ActualScore:      "2-1",
		Confidence:       78.5,
		VIPSection:       models.VIPSectionGeneral,
		PredictedAt:      predictedAt,
		WasCorrect:       true,
	}
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(nil)
	assert.Error(t, err)
}

func TestMemoryHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHistoryRepository()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	old := sampleRecord("p1", "m1", now.Add(-40*24*time.Hour))
	mid := sampleRecord("p2", "m2", now.Add(-2*24*time.Hour))
	recent := sampleRecord("p3", "m1", now.Add(-time.Hour))

	for _, rec := range []*models.PredictionRecord{old, mid, recent} {
		require.NoError(t, repo.Append(ctx, rec))
		assert.NotEqual(t, uuid.Nil, rec.ID)
		assert.False(t, rec.RecordedAt.IsZero())
	}

	since, err := repo.Since(ctx, now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, since, 2)
	assert.Equal(t, "p3", since[0].PredictionID, "newest first")
	assert.Equal(t, "p2", since[1].PredictionID)

	byMatch, err := repo.GetByMatchID(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, byMatch, 2)
	assert.Equal(t, "p3", byMatch[0].PredictionID)

	none, err := repo.GetByMatchID(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryHistoryRepositoryKeepsExplicitID(t *testing.T) {
	repo := NewMemoryHistoryRepository()
	rec := sampleRecord("p1", "m1", time.Now())
	id := uuid.New()
	rec.ID = id

	require.NoError(t, repo.Append(context.Background(), rec))
	assert.Equal(t, id, rec.ID)
}

func TestMemoryBetRecordRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBetRecordRepository()

	empty, err := repo.Latest(ctx, models.BetSourceActive)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first := []models.BetRecord{{MatchName: "A vs B", Odds: 1.9, Stake: decimal.NewFromInt(10), Status: "Active"}}
	require.NoError(t, repo.SaveSnapshot(ctx, models.BetSourceActive, first))

	second := []models.BetRecord{
		{MatchName: "C vs D", Odds: 2.1, Stake: decimal.NewFromInt(5), Status: "Pending"},
		{MatchName: "E vs F", Odds: 3.4, Stake: decimal.NewFromInt(2), Status: "Active"},
	}
	require.NoError(t, repo.SaveSnapshot(ctx, models.BetSourceActive, second))

	latest, err := repo.Latest(ctx, models.BetSourceActive)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "C vs D", latest[0].MatchName)

	// The stored snapshot is isolated from caller mutation.
	second[0].MatchName = "mutated"
	latest, err = repo.Latest(ctx, models.BetSourceActive)
	require.NoError(t, err)
	assert.Equal(t, "C vs D", latest[0].MatchName)

	history, err := repo.Latest(ctx, models.BetSourceHistory)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestPostgresRepositories(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	rec := sampleRecord("p1", "m1", now.Add(-time.Hour))
	require.NoError(t, repos.History.Append(ctx, rec))

	got, err := repos.History.GetByMatchID(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, rec.ID, got[0].ID)
	assert.Equal(t, "Win", got[0].PredictedOutcome)
	assert.True(t, got[0].WasCorrect)

	since, err := repos.History.Since(ctx, now.Add(-2*time.Hour))
	require.NoError(t, err)
	assert.Len(t, since, 1)

	left := "12:30"
	win := decimal.RequireFromString("25.50")
	bets := []models.BetRecord{
		{MatchName: "A vs B", BetType: "1X2", Odds: 1.9, Stake: decimal.NewFromInt(10),
			Status: "Active", PotentialWin: decimal.NewFromInt(19), TimeLeft: &left, ScrapedAt: now},
		{MatchName: "C vs D", BetType: "Total", Odds: 2.55, Stake: decimal.NewFromInt(10),
			Status: "Won", PotentialWin: win, ActualWin: &win, ScrapedAt: now},
	}
	require.NoError(t, repos.Bets.SaveSnapshot(ctx, models.BetSourceActive, bets))

	latest, err := repos.Bets.Latest(ctx, models.BetSourceActive)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "A vs B", latest[0].MatchName)
	require.NotNil(t, latest[0].TimeLeft)
	assert.Equal(t, "12:30", *latest[0].TimeLeft)
	require.NotNil(t, latest[1].ActualWin)
	assert.True(t, win.Equal(*latest[1].ActualWin))
}
