package analyzer

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// scriptedAnalyzer returns canned results in order
type scriptedAnalyzer struct {
	results []models.AnalysisResult[models.BetAnalysis]
	n       int
}

func (s *scriptedAnalyzer) AnalyzeBetSlip(context.Context, models.BetRecord) models.AnalysisResult[models.BetAnalysis] {
	r := s.results[s.n%len(s.results)]
	s.n++
	return r
}

func (s *scriptedAnalyzer) AnalyzeActiveBet(context.Context, models.BetRecord, *models.LiveMatchStats) models.AnalysisResult[models.LiveBetAnalysis] {
	return models.AnalysisResult[models.LiveBetAnalysis]{Status: models.AnalysisOK, Data: DefaultLiveBetAnalysis()}
}

func okResult(p float64, risk, suggestion string) models.AnalysisResult[models.BetAnalysis] {
	return models.AnalysisResult[models.BetAnalysis]{
		Status: models.AnalysisOK,
		Data:   models.BetAnalysis{WinProbability: p, RiskLevel: risk, AISuggestion: suggestion},
	}
}

func TestBatchAnalyze(t *testing.T) {
	a := &scriptedAnalyzer{results: []models.AnalysisResult[models.BetAnalysis]{okResult(70, "Low", "Stay in")}}
	bets := []models.BetRecord{{MatchName: "A vs B"}, {MatchName: "C vs D"}}

	out := BatchAnalyze(context.Background(), a, bets)
	require.Len(t, out, 2)
	assert.Equal(t, "A vs B", out[0].Bet.MatchName)
	assert.Equal(t, "C vs D", out[1].Bet.MatchName)
	assert.False(t, out[0].Timestamp.IsZero())
	assert.Equal(t, 2, a.n)
}

func TestGenerateSummaryReport(t *testing.T) {
	failed := models.AnalysisResult[models.BetAnalysis]{
		Status: models.AnalysisFailed,
		Reason: "timeout",
		Data:   DefaultBetAnalysis(),
	}
	analyzed := []models.AnalyzedBet{
		{Bet: models.BetRecord{Stake: decimal.RequireFromString("10.005"), PotentialWin: decimal.NewFromInt(20)}, Analysis: okResult(80, "Low", "Stay in")},
		{Bet: models.BetRecord{Stake: decimal.NewFromInt(5), PotentialWin: decimal.NewFromInt(15)}, Analysis: okResult(45, "High", "Cashout")},
		{Bet: models.BetRecord{Stake: decimal.NewFromInt(5), PotentialWin: decimal.NewFromInt(9)}, Analysis: failed},
	}

	report := GenerateSummaryReport(analyzed)
	assert.Equal(t, 3, report.TotalBets)
	assert.Equal(t, "20.01", report.TotalStaked.StringFixed(2))
	assert.True(t, decimal.NewFromInt(44).Equal(report.TotalPotentialWins))
	assert.Equal(t, 62.5, report.AverageWinProbability, "failed analyses are excluded from the average")
	assert.Equal(t, 1, report.HighRiskCount)
	assert.Equal(t, 1, report.FailedCount)
	assert.Equal(t, []string{"Stay in", "Cashout"}, report.Recommendations)
}

func TestGenerateSummaryReportEmpty(t *testing.T) {
	report := GenerateSummaryReport(nil)
	assert.Equal(t, 0, report.TotalBets)
	assert.True(t, report.TotalStaked.IsZero())
	assert.Zero(t, report.AverageWinProbability)
	assert.Empty(t, report.Recommendations)
}

func TestAnalysisCache(t *testing.T) {
	c := NewAnalysisCache(0, 2)
	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	assert.Equal(t, 2, c.ItemCount(), "full cache drops new entries")

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	c.Clear()
	hits, misses, _ := c.Stats()
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, c.ItemCount())
}

func TestCacheKey(t *testing.T) {
	bet := sampleBet()
	k1 := CacheKey(KindPreMatch, "gpt-4o", bet, nil)
	assert.Equal(t, k1, CacheKey(KindPreMatch, "gpt-4o", bet, nil))
	assert.NotEqual(t, k1, CacheKey(KindLive, "gpt-4o", bet, nil))
	assert.NotEqual(t, k1, CacheKey(KindPreMatch, "gpt-4o-mini", bet, nil))
	assert.NotEqual(t, CacheKey(KindLive, "gpt-4o", bet, nil),
		CacheKey(KindLive, "gpt-4o", bet, &models.LiveMatchStats{Minute: 10}))
}

func TestBuildPrompts(t *testing.T) {
	bet := sampleBet()
	win := decimal.RequireFromString("37.00")
	bet.ActualWin = &win

	pre, err := BuildPreMatchPrompt(bet)
	require.NoError(t, err)
	assert.Contains(t, pre, "Odds: 1.85")
	assert.Contains(t, pre, "Stake: 20")
	assert.Contains(t, pre, "Actual Win: 37")

	live, err := BuildLivePrompt(models.BetRecord{}, nil)
	require.NoError(t, err)
	assert.Contains(t, live, "Match: Unknown")
	assert.Contains(t, live, "Time Left: N/A")
	assert.NotContains(t, live, "Live Match Data")
}
